package twitter

import "time"

// Post is one item from the account's feed. Ids are opaque strings that
// sort chronologically when compared as strings, so ordering and the
// persisted cursor both use the string form.
type Post struct {
	ID               string      `json:"id"`
	CreatedAt        *time.Time  `json:"created_at,omitempty"`
	Text             string      `json:"text,omitempty"`
	ReferencedTweets []Reference `json:"referenced_tweets,omitempty"`
}

// Reference describes the post's relationship to another post.
type Reference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// IsOriginal reports whether the post is a genuinely original one. Replies
// and reposts never reach us (filtered upstream in the feed query); quotes do,
// so a post is original iff none of its references is of type "quoted".
func IsOriginal(p Post) bool {
	for _, r := range p.ReferencedTweets {
		if r.Type == "quoted" {
			return false
		}
	}
	return true
}
