// Package transport implements the file sources the pipeline ingests
// from: an FTP endpoint and a plain local directory.
package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jlaffaye/ftp"
)

const dialTimeout = 30 * time.Second

// FTPConfig holds the connection settings for an FTP file source.
type FTPConfig struct {
	Host      string // host:port
	User      string
	Password  string
	RemoteDir string // optional working directory after login
}

// FTPSource lists and downloads files from an FTP server.
type FTPSource struct {
	conn *ftp.ServerConn
}

// DialFTP connects and logs in to the configured FTP server.
func DialFTP(ctx context.Context, cfg FTPConfig) (*FTPSource, error) {
	conn, err := ftp.Dial(cfg.Host, ftp.DialWithContext(ctx), ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Host, err)
	}

	if err := conn.Login(cfg.User, cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("login failed for %s: %w", cfg.User, err)
	}

	if cfg.RemoteDir != "" {
		if err := conn.ChangeDir(cfg.RemoteDir); err != nil {
			_ = conn.Quit()
			return nil, fmt.Errorf("failed to change to remote dir %s: %w", cfg.RemoteDir, err)
		}
	}

	return &FTPSource{conn: conn}, nil
}

// List returns the names of all entries in the current remote directory.
func (s *FTPSource) List(_ context.Context) ([]string, error) {
	names, err := s.conn.NameList("")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve file list: %w", err)
	}
	return names, nil
}

// Fetch downloads the named remote file to localPath.
func (s *FTPSource) Fetch(_ context.Context, name, localPath string) error {
	resp, err := s.conn.Retr(name)
	if err != nil {
		return fmt.Errorf("failed to retrieve %s: %w", name, err)
	}
	defer func() { _ = resp.Close() }()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	if _, err := io.Copy(f, resp); err != nil {
		_ = f.Close()
		_ = os.Remove(localPath)
		return fmt.Errorf("failed to download %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finish writing %s: %w", localPath, err)
	}
	return nil
}

// Close disconnects from the server.
func (s *FTPSource) Close() error {
	return s.conn.Quit()
}
