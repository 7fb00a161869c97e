package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Formatting rule keys understood by the prompts.
const (
	RuleLineBreaks = "line_breaks"
	RuleBold       = "bold"
	RuleItalic     = "italic"
	RuleLists      = "lists"
)

// PlatformX is the only platform whose posts are split into threads.
const PlatformX = "x"

// PlatformPolicy describes the constraints a post must satisfy on one platform.
type PlatformPolicy struct {
	Name            string          `yaml:"name" json:"name"`
	MaxLength       int             `yaml:"max_length" json:"max_length"`
	HashtagLimit    int             `yaml:"hashtag_limit" json:"hashtag_limit"`
	EmojiSupport    bool            `yaml:"emoji_support" json:"emoji_support"`
	LinkSupport     bool            `yaml:"link_support" json:"link_support"`
	FormattingRules map[string]bool `yaml:"formatting_rules" json:"formatting_rules"`
}

// Allows reports whether a formatting rule is enabled for the platform.
func (p PlatformPolicy) Allows(rule string) bool {
	return p.FormattingRules[rule]
}

// Validate checks the numeric constraints of the policy.
func (p PlatformPolicy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("platform name is empty")
	}
	if p.MaxLength <= 0 {
		return fmt.Errorf("platform %q: max_length must be positive, got %d", p.Name, p.MaxLength)
	}
	if p.HashtagLimit < 0 {
		return fmt.Errorf("platform %q: hashtag_limit must not be negative, got %d", p.Name, p.HashtagLimit)
	}
	return nil
}

// Platforms is the set of supported platform policies keyed by lower-case name.
type Platforms map[string]PlatformPolicy

// DefaultPlatforms returns the built-in policy table.
func DefaultPlatforms() Platforms {
	return Platforms{
		"instagram": {
			Name:         "instagram",
			MaxLength:    2200,
			HashtagLimit: 30,
			EmojiSupport: true,
			LinkSupport:  false,
			FormattingRules: map[string]bool{
				RuleLineBreaks: true,
				RuleBold:       false,
				RuleItalic:     false,
				RuleLists:      false,
			},
		},
		"linkedin": {
			Name:         "linkedin",
			MaxLength:    3000,
			HashtagLimit: 5,
			EmojiSupport: true,
			LinkSupport:  true,
			FormattingRules: map[string]bool{
				RuleLineBreaks: true,
				RuleBold:       true,
				RuleItalic:     true,
				RuleLists:      true,
			},
		},
		"facebook": {
			Name:         "facebook",
			MaxLength:    63206,
			HashtagLimit: 10,
			EmojiSupport: true,
			LinkSupport:  true,
			FormattingRules: map[string]bool{
				RuleLineBreaks: true,
				RuleBold:       true,
				RuleItalic:     true,
				RuleLists:      true,
			},
		},
		PlatformX: {
			Name:         PlatformX,
			MaxLength:    MaxTweetLength,
			HashtagLimit: 5,
			EmojiSupport: true,
			LinkSupport:  true,
			FormattingRules: map[string]bool{
				RuleLineBreaks: false,
				RuleBold:       false,
				RuleItalic:     false,
				RuleLists:      false,
			},
		},
	}
}

// Lookup returns the policy for a platform name, ignoring case.
func (p Platforms) Lookup(name string) (PlatformPolicy, error) {
	policy, ok := p[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PlatformPolicy{}, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
	}
	return policy, nil
}

// Names returns the supported platform names in sorted order.
func (p Platforms) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
