package config

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codecarve/internal/merge"
)

// DefaultBaseDirectoryPath is where the codecarve commands look for their
// configuration. It defaults to $CARVE_BASE if set, otherwise to
// $HOME/lib/codecarve. Commands override this via the -base flag.
var DefaultBaseDirectoryPath string

func init() {
	if base := os.Getenv("CARVE_BASE"); base != "" {
		DefaultBaseDirectoryPath = base
	} else {
		DefaultBaseDirectoryPath = os.ExpandEnv("$HOME/lib/codecarve")
	}
}

type C struct {
	// BlankLines is "preserve" or "drop": whether inserted blank lines
	// survive filtering. Empty means preserve.
	BlankLines string

	// Verbosity is a logrus level name. Empty means warning.
	Verbosity string

	// Workers bounds the number of files reconciled concurrently.
	// Zero means the reconciler's default.
	Workers int
}

// Load loads the configuration from the file called "config" in the
// provided base directory. A missing file or a missing base directory
// yields the zero configuration.
func Load(base string) (*C, error) {
	filename := filepath.Join(base, "config")
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return &C{}, nil
	}
	if err != nil {
		return nil, errorf("Load", "%q: %v", filename, err)
	}
	defer func() {
		// Ignore error closing file opened only for reading.
		_ = f.Close()
	}()
	return load(f)
}

func load(f io.Reader) (*C, error) {
	c := C{}
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		i := strings.IndexAny(line, " \t")
		if i == -1 {
			return nil, errorf("load", "no separator in %q", line)
		}
		switch key, val := line[:i], strings.TrimSpace(line[i:]); key {
		case "blank-lines":
			if val != "preserve" && val != "drop" {
				return nil, errorf("load", "blank-lines must be preserve or drop, got %q", val)
			}
			c.BlankLines = val
		case "verbosity":
			c.Verbosity = val
		case "workers":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return nil, errorf("load", "workers must be a non-negative integer, got %q", val)
			}
			c.Workers = n
		default:
			return nil, errorf("load", "unknown key %q", key)
		}
	}
	if err := s.Err(); err != nil {
		return nil, errorf("load", "%v", err)
	}
	return &c, nil
}

// Policy translates the blank-lines key into a merge policy.
func (c *C) Policy() merge.Policy {
	if c.BlankLines == "drop" {
		return merge.DropBlanks
	}
	return merge.PreserveBlanks
}

// Initialize generates an initial configuration at the given directory.
func Initialize(baseDir string) error {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return errorf("Initialize", "%q: could not mkdir: %v", baseDir, err)
	}
	path := filepath.Join(baseDir, "config")
	_, err := os.Stat(path)
	if err == nil {
		return errorf("Initialize", "%q: already exists", path)
	}
	if !os.IsNotExist(err) {
		return errorf("Initialize", "%q: could not determine if it exists: %v", path, err)
	}
	var buf bytes.Buffer
	buf.WriteString("# Whether inserted blank lines survive filtering: preserve or drop.\n")
	buf.WriteString("blank-lines preserve\n")
	buf.WriteString("# Log level: panic, fatal, error, warning, info, debug, trace.\n")
	buf.WriteString("verbosity warning\n")
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return errorf("Initialize", "%q: %v", path, err)
	}
	return nil
}
