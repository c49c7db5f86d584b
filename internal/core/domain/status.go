package domain

import "strings"

// StatusBucket is the coarse display/aggregation class of a raw status.
type StatusBucket string

const (
	BucketPending  StatusBucket = "pending"
	BucketOpen     StatusBucket = "open"
	BucketApproved StatusBucket = "approved"
	BucketDeclined StatusBucket = "declined"
	BucketDefault  StatusBucket = "default"
)

// bucketRule buckets a status when any of its substrings match. For the
// pending rule a qualifier must match alongside the primary substring.
type bucketRule struct {
	bucket     StatusBucket
	substrings []string
	qualifiers []string // all-empty means no qualifier needed
}

// Rules are evaluated in order; the declined rule runs before approved so
// "not approved" never lands in the approved bucket.
var bucketRules = []bucketRule{
	{bucket: BucketPending, substrings: []string{"awaiting"}, qualifiers: []string{"approval", "es", "payroll"}},
	{bucket: BucketPending, substrings: []string{"pending"}},
	{bucket: BucketDeclined, substrings: []string{"rejected", "cancelled", "declined", "not approved"}},
	{bucket: BucketApproved, substrings: []string{"closed", "approved", "completed", "resolved"}},
	{bucket: BucketOpen, substrings: []string{"open"}},
}

// Bucket maps a raw status string to exactly one bucket. Total over arbitrary
// input: unknown and empty statuses fall through to BucketDefault.
func Bucket(status string) StatusBucket {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return BucketDefault
	}
	for _, rule := range bucketRules {
		if !containsAny(s, rule.substrings) {
			continue
		}
		if len(rule.qualifiers) > 0 && !containsAny(s, rule.qualifiers) {
			continue
		}
		return rule.bucket
	}
	return BucketDefault
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
