package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed all:templates
var templateFS embed.FS

// copyTemplate writes an embedded project template into targetDir and
// returns the relative paths of the files it created. Existing files
// are left alone unless force is set. Embedded paths are always
// slash-separated, so they only become filepath values on the way to
// disk.
func copyTemplate(templateName, targetDir string, force bool) ([]string, error) {
	root := path.Join("templates", templateName)

	var created []string
	err := fs.WalkDir(templateFS, root, func(fsPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if fsPath == root {
			return nil
		}
		relPath := strings.TrimPrefix(fsPath, root+"/")

		// Dotfiles cannot live in an embed FS, so the template stores
		// them without the dot.
		targetRel := filepath.FromSlash(renameSpecialFiles(relPath))
		targetPath := filepath.Join(targetDir, targetRel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0750)
		}

		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil
			}
		}

		content, err := templateFS.ReadFile(fsPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(targetPath, content, 0600); err != nil {
			return err
		}
		created = append(created, targetRel)
		return nil
	})
	return created, err
}

func renameSpecialFiles(fsPath string) string {
	dir, base := path.Split(fsPath)
	if base == "gitignore" {
		return path.Join(dir, ".gitignore")
	}
	return fsPath
}

// groupTemplateFiles buckets created files for display: request
// documents, function libraries, and everything else as configuration.
func groupTemplateFiles(files []string) map[string][]string {
	groups := map[string][]string{
		"config":  {},
		"schemas": {},
		"lib":     {},
	}
	for _, f := range files {
		switch {
		case strings.HasPrefix(f, "schemas"+string(filepath.Separator)):
			groups["schemas"] = append(groups["schemas"], f)
		case strings.HasPrefix(f, "lib"+string(filepath.Separator)):
			groups["lib"] = append(groups["lib"], f)
		default:
			groups["config"] = append(groups["config"], f)
		}
	}
	return groups
}
