package main

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	// Packages
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Defaults is a persistent key-value store backed by a YAML file on disk.
type Defaults struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Name of the configuration directory
	appName = "lingo"

	// Name of the defaults file
	defaultsFile = "defaults.yaml"
)

// Keys
const (
	keyChatSession  = "chat_session"
	keySceneSession = "scene_session"
	keyRagSession   = "rag_session"
	keyUser         = "user"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDefaults loads the defaults for the named application from the user
// configuration directory. The store starts empty if the file does not exist.
func NewDefaults(name string) (*Defaults, error) {
	dir, err := configDir(name)
	if err != nil {
		return nil, err
	}
	return loadDefaults(filepath.Join(dir, defaultsFile))
}

func loadDefaults(path string) (*Defaults, error) {
	d := &Defaults{
		path: path,
		data: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return d, nil
	} else if err != nil {
		return nil, err
	} else if err := yaml.Unmarshal(data, &d.data); err != nil {
		return nil, err
	}
	if d.data == nil {
		d.data = make(map[string]string)
	}
	return d, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Get returns a value, or the empty string if the key does not exist
func (d *Defaults) Get(key string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.data[key]
}

// Set stores a value and persists the store to disk. An empty value
// removes the key.
func (d *Defaults) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if value == "" {
		delete(d.data, key)
	} else {
		d.data[key] = value
	}
	return d.save()
}

// Clear removes every key, and persists the store to disk
func (d *Defaults) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.data)
	return d.save()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (d *Defaults) save() error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(d.data)
	if err != nil {
		return err
	}
	return os.WriteFile(d.path, data, 0o600)
}

// configDir returns the configuration directory for the named application
func configDir(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
