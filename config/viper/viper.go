// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package viper provides a config provider for https://github.com/spf13/viper.
// Durations like "30s" and comma separated lists are decoded into the configuration struct.
// If Watch is set, the configuration struct is updated on file changes.
package viper

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/patrickascher/queryinterface/config"
	"github.com/patrickascher/queryinterface/registry"
	"github.com/spf13/viper"
)

// init registers the viper provider.
func init() {
	err := registry.Set(config.VIPER, new(viperProvider))
	if err != nil {
		log.Fatal(err)
	}
}

// Error messages
var (
	ErrOptions   = errors.New("viper-provider: options must be of type viper.Options")
	ErrMandatory = errors.New("viper-provider: viper.Options file-name and path are mandatory")
)

// Options for the viper provider.
type Options struct {
	// FileName of the configuration.
	FileName string
	// FileType is optional if the filename has an extension.
	FileType string
	// FilePath to look into.
	FilePath string
	// Watch for file changes.
	Watch bool
	// WatchCallback is called after the config struct was updated.
	WatchCallback func(cfg interface{}, viper *viper.Viper, e fsnotify.Event)
	// EnvPrefix for environment variables.
	EnvPrefix string
	// EnvAutomatic checks if environment variables match any of the existing keys.
	EnvAutomatic bool
	// EnvBind binds viper keys to environment variables.
	EnvBind []string
}

// instances by absolute file path, needed for the watch callback.
var (
	mu        sync.Mutex
	instances = make(map[string]*instance)
)

// instance holds a viper instance and the struct it unmarshals into.
type instance struct {
	viper   *viper.Viper
	cfg     interface{}
	options Options
}

// viperProvider satisfies the config.Interface.
type viperProvider struct{}

// Parse configures viper and unmarshals the file into the config struct.
func (vp *viperProvider) Parse(cfg interface{}, opt interface{}) error {
	options, ok := opt.(Options)
	if !ok {
		return ErrOptions
	}
	if options.FileName == "" || options.FilePath == "" {
		return ErrMandatory
	}
	if options.FileType == "" {
		options.FileType = strings.TrimPrefix(filepath.Ext(options.FileName), ".")
		if options.FileType == "" {
			return ErrMandatory
		}
	}

	i, err := newInstance(cfg, options)
	if err != nil {
		return fmt.Errorf("viper-provider: %w", err)
	}

	i.viper.SetConfigFile(filepath.Join(options.FilePath, options.FileName))
	i.viper.SetConfigType(options.FileType)

	if options.EnvPrefix != "" {
		i.viper.SetEnvPrefix(options.EnvPrefix)
	}
	if len(options.EnvBind) > 0 {
		// error can only happen on an empty slice.
		_ = i.viper.BindEnv(options.EnvBind...)
	}
	if options.EnvAutomatic {
		i.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		i.viper.AutomaticEnv()
	}

	if err = i.viper.ReadInConfig(); err != nil {
		return err
	}

	if options.Watch {
		i.viper.OnConfigChange(func(e fsnotify.Event) {
			mu.Lock()
			w, ok := instances[e.Name]
			mu.Unlock()
			if !ok {
				return
			}
			if err := unmarshal(w.viper, w.cfg); err != nil {
				return
			}
			if w.options.WatchCallback != nil {
				w.options.WatchCallback(w.cfg, w.viper, e)
			}
		})
		// a goroutine is spawned by viper.
		i.viper.WatchConfig()
	}

	return unmarshal(i.viper, cfg)
}

// unmarshal decodes durations, comma separated slices and weak types.
func unmarshal(v *viper.Viper, cfg interface{}) error {
	return v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

// newInstance returns the viper instance of the file path or creates a new one.
func newInstance(cfg interface{}, opt Options) (*instance, error) {
	name, err := filepath.Abs(filepath.Join(opt.FilePath, opt.FileName))
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(name); err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()

	i, ok := instances[name]
	if !ok {
		i = &instance{viper: viper.New()}
		instances[name] = i
	}
	i.cfg = cfg
	i.options = opt
	return i, nil
}
