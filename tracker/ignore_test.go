package tracker

import "testing"

func TestIgnored(t *testing.T) {
	tests := []struct {
		path    string
		ignored bool
	}{
		{".git/HEAD", true},
		{"node_modules/react/index.js", true},
		{"src/node_modules/pkg/a.js", true},
		{"vendor/lib/lib.go", true},
		{"__pycache__/mod.pyc", true},
		{"dist/bundle.js", true},
		{"build/main.o", true},
		{"target/debug/app", true},
		{".idea/workspace.xml", true},
		{".vscode/settings.json", true},
		{".driftwatch/config.json", true},
		{".DS_Store", true},
		{"sub/.DS_Store", true},
		{"package-lock.json", true},
		{"frontend/yarn.lock", true},
		{"Cargo.lock", true},
		{"main.go.swp", true},
		{"notes.txt~", true},
		{"server.log", true},
		{"main.go", false},
		{"src/app/handler.go", false},
		{"README.md", false},
		{"builder/main.go", false},
		{"distribution.md", false},
		{"gitignore.go", false},
		{"logs.go", false},
	}

	for _, test := range tests {
		if got := Ignored(test.path); got != test.ignored {
			t.Errorf("Ignored(%q) = %v, expected %v", test.path, got, test.ignored)
		}
	}
}

func TestTrackedExtension(t *testing.T) {
	tests := []struct {
		path    string
		tracked bool
	}{
		{"main.go", true},
		{"src/App.tsx", true},
		{"script.py", true},
		{"style.SCSS", true},
		{"config.yaml", true},
		{"README.md", true},
		{"schema.sql", true},
		{"Dockerfile", true},
		{"Makefile", true},
		{"app.exe", false},
		{"image.png", false},
		{"archive.tar.gz", false},
		{"binary", false},
		{"data.db", false},
	}

	for _, test := range tests {
		if got := TrackedExtension(test.path); got != test.tracked {
			t.Errorf("TrackedExtension(%q) = %v, expected %v", test.path, got, test.tracked)
		}
	}
}
