// Package match classifies the free-text labels on studio records against
// the known keyword sets for acquisition channels and exclusions.
package match

import (
	"regexp"
	"strings"
	"sync"
)

// Channel is the acquisition-source classification of a new client.
type Channel string

// Acquisition channels.
const (
	ChannelTrial      Channel = "Trial"
	ChannelReferral   Channel = "Referral"
	ChannelHosted     Channel = "Hosted"
	ChannelInfluencer Channel = "Influencer"
	ChannelOther      Channel = "Other"
)

// Channels lists all acquisition channels in classification precedence order.
var Channels = []Channel{ChannelTrial, ChannelReferral, ChannelHosted, ChannelInfluencer, ChannelOther}

// Keyword sets. Each entry is a raw regex fragment; callers adding literal
// text containing regex metacharacters must pre-escape it.
var (
	// TrialPatterns identify introductory classes.
	TrialPatterns = []string{"Studio Open Barre Class", "Newcomers 2 For 1"}

	// ReferralClass is matched by exact equality, not as a pattern.
	ReferralClass = "Studio Complimentary Referral Class"

	// HostedPatterns identify hosted and partner events.
	HostedPatterns = []string{"hosted", "x", "p57", "physique", "weword", "rugby", "outdoor", "birthday", "bridal", "shower"}

	// InfluencerPatterns identify influencer sign-up memberships.
	InfluencerPatterns = []string{"sign-up", "link", "influencer", "twain", "ooo", "lrs", "x", "p57", "physique", "complimentary"}

	// ExcludedPatterns identify friends/family/staff visits that never count
	// as real acquisitions.
	ExcludedPatterns = []string{"friends", "family", "staff"}
)

var (
	regexCache   = make(map[string]*regexp.Regexp)
	regexCacheMu sync.RWMutex
)

// Matches reports whether value matches any of the given patterns,
// case-insensitively. Empty values never match.
func Matches(value string, patterns []string) bool {
	if value == "" || len(patterns) == 0 {
		return false
	}

	expr := "(?i)" + strings.Join(patterns, "|")

	regexCacheMu.RLock()
	re, ok := regexCache[expr]
	regexCacheMu.RUnlock()

	if !ok {
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return false
		}
		regexCacheMu.Lock()
		regexCache[expr] = compiled
		regexCacheMu.Unlock()
		re = compiled
	}

	return re.MatchString(value)
}

// Classify buckets a new client into exactly one acquisition channel from
// their membership label and first-visit class label. Precedence: trial,
// referral (exact class match), hosted, influencer, other. Applying the
// precedence per client keeps the five buckets mutually exclusive so their
// counts always sum to the cohort size.
func Classify(membershipUsed, firstVisit string) Channel {
	switch {
	case Matches(firstVisit, TrialPatterns):
		return ChannelTrial
	case firstVisit == ReferralClass:
		return ChannelReferral
	case Matches(membershipUsed, HostedPatterns) || Matches(firstVisit, HostedPatterns):
		return ChannelHosted
	case Matches(membershipUsed, InfluencerPatterns):
		return ChannelInfluencer
	}
	return ChannelOther
}

// Excluded reports whether a client is a friends/family/staff visit, and
// names the field that triggered the exclusion ("membership" or
// "first visit").
func Excluded(membershipUsed, firstVisit string) (string, bool) {
	if Matches(membershipUsed, ExcludedPatterns) {
		return "membership", true
	}
	if Matches(firstVisit, ExcludedPatterns) {
		return "first visit", true
	}
	return "", false
}

// IsTwoForOne reports whether a first-visit label is a "2 for 1" offer,
// which raises the retention threshold to two return visits.
func IsTwoForOne(label string) bool {
	return strings.Contains(strings.ToLower(label), "2 for 1")
}
