package core

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"
)

// archiveRoot prefixes every entry in a bundle.
const archiveRoot = "hostprobe/"

// PackageMetadata describes a written bundle.
type PackageMetadata struct {
	Path         string `json:"archive_path"`
	Encrypted    bool   `json:"encrypted"`
	FileCount    int    `json:"file_count"`
	BytesWritten int64  `json:"bytes_written"`
}

// BundleName returns the archive file name for host at timestamp.
func BundleName(hostname string, timestamp time.Time, encrypted bool) string {
	name := fmt.Sprintf("hostprobe_%s_%s.tar.gz", SanitizeName(hostname), timestamp.UTC().Format("20060102T150405Z"))
	if encrypted {
		name += ".age"
	}
	return name
}

// BundleAndMaybeEncrypt writes artifactsDir as a tar.gz into outDir. When
// agePublicKey is set the gzip stream is encrypted to that recipient.
func BundleAndMaybeEncrypt(ctx context.Context, artifactsDir, outDir, hostname string, timestamp time.Time, agePublicKey string) (*PackageMetadata, error) {
	encrypted := agePublicKey != ""
	outputPath := filepath.Join(outDir, BundleName(hostname, timestamp, encrypted))

	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer outFile.Close()

	sink, err := openSink(outFile, agePublicKey)
	if err != nil {
		return nil, err
	}
	gzWriter := gzip.NewWriter(sink)
	tarWriter := tar.NewWriter(gzWriter)

	fileCount, err := addTree(ctx, tarWriter, artifactsDir, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to walk artifacts directory: %w", err)
	}

	if err := tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close tar writer: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive stream: %w", err)
	}

	stat, err := outFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	return &PackageMetadata{
		Path:         outputPath,
		Encrypted:    encrypted,
		FileCount:    fileCount,
		BytesWritten: stat.Size(),
	}, nil
}

// openSink returns the stream the gzip writer writes into: the file itself,
// or an age encryption writer on top of it.
func openSink(f *os.File, agePublicKey string) (io.WriteCloser, error) {
	if agePublicKey == "" {
		return nopCloser{f}, nil
	}
	recipient, err := age.ParseX25519Recipient(agePublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse age public key: %w", err)
	}
	w, err := age.Encrypt(f, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to create age encryption writer: %w", err)
	}
	return w, nil
}

// addTree adds every directory and regular file under root to tw and
// returns the number of files written.
func addTree(ctx context.Context, tw *tar.Writer, root string, timestamp time.Time) (int, error) {
	fileCount := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to calculate relative path for %s: %w", path, err)
		}
		name := archiveRoot + filepath.ToSlash(relPath)

		if d.IsDir() {
			return tw.WriteHeader(&tar.Header{
				Name:     name + "/",
				Mode:     0755,
				Typeflag: tar.TypeDir,
				ModTime:  timestamp,
			})
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if err := addFile(tw, path, name); err != nil {
			return err
		}
		fileCount++
		return nil
	})
	return fileCount, err
}

func addFile(tw *tar.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	header := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", path, err)
	}
	if _, err := io.Copy(tw, file); err != nil {
		return fmt.Errorf("failed to copy file %s to archive: %w", path, err)
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
