package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/takt-sdd/create-takt-sdd/internal/branding"
	"github.com/takt-sdd/create-takt-sdd/internal/errors"
	"github.com/takt-sdd/create-takt-sdd/internal/i18n"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized keys.
const (
	// KeyMirror replaces https://github.com when downloading archives.
	KeyMirror = "mirror"
	// KeyAPIBase replaces https://api.github.com for release lookups.
	KeyAPIBase = "api_base"
	// KeyGitHubToken authenticates release lookups.
	KeyGitHubToken = "github_token"
	// KeyLang is the default language when --lang is not given.
	KeyLang = "lang"
)

var validators = map[string]func(string) error{
	KeyMirror:      validURL,
	KeyAPIBase:     validURL,
	KeyGitHubToken: func(string) error { return nil },
	KeyLang: func(v string) error {
		_, err := i18n.ParseLang(v)
		return err
	},
}

// Keys returns the recognized keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(validators))
	for k := range validators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(xdg.ConfigHome, branding.ConfigDir(), fileName+"."+fileType)
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GitHubToken returns the configured token, falling back to GITHUB_TOKEN.
func GitHubToken() string {
	if t := Get(KeyGitHubToken); t != "" {
		return t
	}
	return os.Getenv("GITHUB_TOKEN")
}

// Set validates and writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	validate, ok := validators[key]
	if !ok {
		return errors.Newf(errors.ErrInvalidOption, "unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := validate(value); err != nil {
		return err
	}

	configFile, err := xdg.ConfigFile(filepath.Join(branding.ConfigDir(), fileName+"."+fileType))
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	viper.Set(key, value)

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func validURL(v string) error {
	if v == "" || strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://") {
		return nil
	}
	return errors.Newf(errors.ErrInvalidOption, "%q is not an http(s) URL", v)
}
