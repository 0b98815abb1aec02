package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// Environment overrides recognized by the resolver.
const (
	// EnvDataPath relocates the base data directory. When set, the base
	// becomes <EFB_DATA_PATH>/<os-user>/.
	EnvDataPath = "EFB_DATA_PATH"

	// EnvCachePath relocates the cache root. When set, channel caches live
	// under <EFB_CACHE_PATH>/<os-user>/<profile>/<channel>/.
	EnvCachePath = "EFB_CACHE_PATH"
)

const (
	defaultBaseDir = ".ehforwarderbot"
	cacheDirName   = ".cache"
	pluginsDirName = "plugins"
	configFileStem = "config"

	// DefaultConfigExt is used when a caller passes an empty extension.
	DefaultConfigExt = "yaml"
)

// ProfileProvider supplies the current profile name. The value is owned and
// mutated elsewhere (the coordinator); the resolver only reads it, fresh on
// every call.
type ProfileProvider interface {
	Profile() string
}

// ProfileFunc adapts a plain function to ProfileProvider.
type ProfileFunc func() string

func (f ProfileFunc) Profile() string { return f() }

// Resolver derives framework directories from the environment, the current
// profile and a channel ID, creating each directory on first use.
//
// The zero value is not usable; construct with New. The injectable fields
// exist so tests can pin the environment, user name and home directory
// without touching the process state.
//
// Channel IDs and config extensions are passed through as-is: they are
// developer-supplied, and no path-separator or traversal filtering is done
// here. A malformed ID produces a path outside the intended tree.
type Resolver struct {
	Profiles ProfileProvider

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
	// Username defaults to the login name (env, then os/user).
	Username func() string
	// HomeDir defaults to os.UserHomeDir.
	HomeDir func() (string, error)
}

// New returns a Resolver bound to the given profile provider and the real
// process environment.
func New(profiles ProfileProvider) *Resolver {
	return &Resolver{
		Profiles:  profiles,
		LookupEnv: os.LookupEnv,
		Username:  LoginName,
		HomeDir:   os.UserHomeDir,
	}
}

// Base resolves the framework's base data directory: EFB_DATA_PATH/<user>/
// when the override is set, ~/.ehforwarderbot/ otherwise. The directory is
// created if missing and the returned path always ends with a separator.
func (r *Resolver) Base() (string, error) {
	if root, ok := r.lookupEnv(EnvDataPath); ok && root != "" {
		return ensureDir(filepath.Join(root, r.username()))
	}
	home, err := r.homeDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(home, defaultBaseDir))
}

// Data resolves the data directory owned by one channel:
// <base>/<profile>/<channelID>/.
func (r *Resolver) Data(channelID string) (string, error) {
	base, err := r.Base()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, r.profile(), channelID))
}

// Config resolves the config file path for a channel, or for the framework
// itself when channelID is empty. Only the containing directory is created;
// the file is neither created nor checked.
func (r *Resolver) Config(channelID, ext string) (string, error) {
	if ext == "" {
		ext = DefaultConfigExt
	}
	var dir string
	if channelID != "" {
		d, err := r.Data(channelID)
		if err != nil {
			return "", err
		}
		dir = d
	} else {
		base, err := r.Base()
		if err != nil {
			return "", err
		}
		d, err := ensureDir(filepath.Join(base, r.profile()))
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, configFileStem+"."+ext), nil
}

// Cache resolves the cache directory for one channel. With EFB_CACHE_PATH
// set this is <override>/<user>/<profile>/<channelID>/; the default is
// ~/.ehforwarderbot/.cache/<profile>/<channelID>/. Note the default ignores
// EFB_DATA_PATH, matching the layout contract rather than Base().
func (r *Resolver) Cache(channelID string) (string, error) {
	profile := r.profile()
	if root, ok := r.lookupEnv(EnvCachePath); ok && root != "" {
		return ensureDir(filepath.Join(root, r.username(), profile, channelID))
	}
	home, err := r.homeDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(home, defaultBaseDir, cacheDirName, profile, channelID))
}

// Plugins resolves <base>/plugins/, where externally-built channels are
// dropped for discovery.
func (r *Resolver) Plugins() (string, error) {
	base, err := r.Base()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, pluginsDirName))
}

func (r *Resolver) profile() string {
	if r.Profiles == nil {
		return ""
	}
	return r.Profiles.Profile()
}

func (r *Resolver) lookupEnv(key string) (string, bool) {
	if r.LookupEnv == nil {
		return os.LookupEnv(key)
	}
	return r.LookupEnv(key)
}

func (r *Resolver) username() string {
	if r.Username == nil {
		return LoginName()
	}
	return r.Username()
}

func (r *Resolver) homeDir() (string, error) {
	if r.HomeDir == nil {
		return os.UserHomeDir()
	}
	return r.HomeDir()
}

// ensureDir creates dir (and parents) if absent and returns it with a
// trailing separator. Filesystem errors are returned as-is; there is no
// retry or fallback location.
func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir + string(os.PathSeparator), nil
}

// LoginName reports the current OS user name, preferring the conventional
// environment variables over an os/user lookup so it also works in minimal
// containers without a passwd database.
func LoginName() string {
	for _, key := range []string{"LOGNAME", "USER", "LNAME", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
