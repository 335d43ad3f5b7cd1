package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteOutput writes the files of out below dir/<device name>.
func WriteOutput(dir string, out *DeviceOutput) error {
	target := filepath.Join(dir, out.Name)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", target, err)
	}
	for _, f := range out.Files {
		path := filepath.Join(target, f.Name)
		if f.Source != "" {
			if err := copyFile(f.Source, path); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
