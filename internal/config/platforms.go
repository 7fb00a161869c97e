package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"socialpost-ai/internal/domain"
	"socialpost-ai/pkg/log"
)

// PlatformStore serves the platform table and picks up changes to its
// YAML file while Watch runs.
type PlatformStore struct {
	mu          sync.RWMutex
	platforms   domain.Platforms
	filePath    string
	lastModTime time.Time
}

// rawPlatforms represents the YAML structure.
type rawPlatforms struct {
	Platforms map[string]struct {
		MaxLength       *int            `yaml:"max_length"`
		HashtagLimit    *int            `yaml:"hashtag_limit"`
		EmojiSupport    *bool           `yaml:"emoji_support"`
		LinkSupport     *bool           `yaml:"link_support"`
		FormattingRules map[string]bool `yaml:"formatting_rules"`
	} `yaml:"platforms"`
}

// LoadPlatforms returns a store over the built-in table. When filePath is
// set, the file's entries override or extend the built-in policies.
func LoadPlatforms(filePath string) (*PlatformStore, error) {
	s := &PlatformStore{platforms: domain.DefaultPlatforms(), filePath: filePath}
	if filePath == "" {
		return s, nil
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat platforms config: %w", err)
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	s.lastModTime = info.ModTime()
	return s, nil
}

// ParsePlatforms merges YAML platform entries over the built-in table.
// Fields missing from an entry keep the built-in value for known platforms.
func ParsePlatforms(data []byte) (domain.Platforms, error) {
	var raw rawPlatforms
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse platforms config: %w", err)
	}

	platforms := domain.DefaultPlatforms()
	for name, entry := range raw.Platforms {
		key := strings.ToLower(strings.TrimSpace(name))
		policy, ok := platforms[key]
		if !ok {
			policy = domain.PlatformPolicy{Name: key, FormattingRules: map[string]bool{}}
		}
		if entry.MaxLength != nil {
			policy.MaxLength = *entry.MaxLength
		}
		if entry.HashtagLimit != nil {
			policy.HashtagLimit = *entry.HashtagLimit
		}
		if entry.EmojiSupport != nil {
			policy.EmojiSupport = *entry.EmojiSupport
		}
		if entry.LinkSupport != nil {
			policy.LinkSupport = *entry.LinkSupport
		}
		for rule, enabled := range entry.FormattingRules {
			policy.FormattingRules[rule] = enabled
		}
		if err := policy.Validate(); err != nil {
			return nil, err
		}
		platforms[key] = policy
	}
	return platforms, nil
}

// reload reads the table from the file. A bad file leaves the current table.
func (s *PlatformStore) reload() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("read platforms config: %w", err)
	}
	platforms, err := ParsePlatforms(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.platforms = platforms
	s.mu.Unlock()
	return nil
}

// Watch polls the file for changes until ctx is done.
func (s *PlatformStore) Watch(ctx context.Context, interval time.Duration) {
	if s.filePath == "" {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkForChanges(ctx)
		}
	}
}

func (s *PlatformStore) checkForChanges(ctx context.Context) {
	info, err := os.Stat(s.filePath)
	if err != nil || !info.ModTime().After(s.lastModTime) {
		return
	}
	s.lastModTime = info.ModTime()

	if err := s.reload(); err != nil {
		log.GlobalWarnCtx(ctx, "platforms config reload failed", "path", s.filePath, "error", err)
		return
	}
	log.GlobalInfoCtx(ctx, "platforms config reloaded", "path", s.filePath)
}

// Lookup returns the policy for a platform name, ignoring case.
func (s *PlatformStore) Lookup(name string) (domain.PlatformPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.platforms.Lookup(name)
}

// Names returns the supported platform names in sorted order.
func (s *PlatformStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.platforms.Names()
}

// All returns a snapshot of the current table.
func (s *PlatformStore) All() domain.Platforms {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.Platforms, len(s.platforms))
	for k, v := range s.platforms {
		out[k] = v
	}
	return out
}
