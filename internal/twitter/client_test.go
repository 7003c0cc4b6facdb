package twitter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func clientWithTransport(rt roundTripFunc) *Client {
	c, _ := NewClient("test-bearer")
	c.baseURL = "https://twitter.test/2"
	c.client = &http.Client{
		Timeout:   fetchTimeout,
		Transport: rt,
	}
	return c
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewClient_EmptyBearer(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error for empty bearer token")
	}
}

func TestResolveUser_Success(t *testing.T) {
	c := clientWithTransport(func(r *http.Request) (*http.Response, error) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-bearer" {
			t.Errorf("authorization = %q, want bearer header", got)
		}
		if r.URL.Path != "/2/users/by/username/someuser" {
			t.Errorf("path = %q", r.URL.Path)
		}
		return response(http.StatusOK, `{"data":{"id":"12345"}}`), nil
	})

	id, err := c.ResolveUser(context.Background(), "someuser")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "12345" {
		t.Errorf("id = %q, want 12345", id)
	}
}

func TestResolveUser_RateLimited(t *testing.T) {
	c := clientWithTransport(func(*http.Request) (*http.Response, error) {
		return response(http.StatusTooManyRequests, `{"title":"Too Many Requests"}`), nil
	})

	_, err := c.ResolveUser(context.Background(), "someuser")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestResolveUser_MissingUser(t *testing.T) {
	c := clientWithTransport(func(*http.Request) (*http.Response, error) {
		return response(http.StatusOK, `{"errors":[{"title":"Not Found Error"}]}`), nil
	})

	_, err := c.ResolveUser(context.Background(), "nosuchuser")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveUser_UpstreamError(t *testing.T) {
	c := clientWithTransport(func(*http.Request) (*http.Response, error) {
		return response(http.StatusInternalServerError, `boom`), nil
	})

	_, err := c.ResolveUser(context.Background(), "someuser")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if ue.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", ue.Status)
	}
}

func TestRecentOriginals_QueryParams(t *testing.T) {
	c := clientWithTransport(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/2/users/12345/tweets" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("max_results"); got != "20" {
			t.Errorf("max_results = %q, want 20", got)
		}
		if got := q.Get("exclude"); got != "replies,retweets" {
			t.Errorf("exclude = %q", got)
		}
		if got := q.Get("tweet.fields"); got != "created_at,referenced_tweets" {
			t.Errorf("tweet.fields = %q", got)
		}
		if got := q.Get("since_id"); got != "100" {
			t.Errorf("since_id = %q, want 100", got)
		}
		return response(http.StatusOK, `{"data":[]}`), nil
	})

	if _, err := c.RecentOriginals(context.Background(), "12345", "100"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestRecentOriginals_NoSinceID(t *testing.T) {
	c := clientWithTransport(func(r *http.Request) (*http.Response, error) {
		if r.URL.Query().Has("since_id") {
			t.Error("since_id should be omitted on catch-up fetch")
		}
		return response(http.StatusOK, `{"data":[{"id":"50","text":"hello"}]}`), nil
	})

	posts, err := c.RecentOriginals(context.Background(), "12345", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "50" {
		t.Fatalf("posts = %+v, want one post with id 50", posts)
	}
}

func TestRecentOriginals_ParsesPosts(t *testing.T) {
	c := clientWithTransport(func(*http.Request) (*http.Response, error) {
		return response(http.StatusOK, `{"data":[
			{"id":"101","text":"plain","created_at":"2024-05-01T10:00:00Z"},
			{"id":"102","text":"a quote","referenced_tweets":[{"type":"quoted","id":"99"}]}
		]}`), nil
	})

	posts, err := c.RecentOriginals(context.Background(), "12345", "100")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2", len(posts))
	}
	if posts[0].CreatedAt == nil || !posts[0].CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("created_at = %v", posts[0].CreatedAt)
	}
	if IsOriginal(posts[1]) {
		t.Error("post 102 references a quote, should not be original")
	}
}

func TestRecentOriginals_RateLimitDegradesToEmpty(t *testing.T) {
	c := clientWithTransport(func(*http.Request) (*http.Response, error) {
		return response(http.StatusTooManyRequests, `{"title":"Too Many Requests"}`), nil
	})

	posts, err := c.RecentOriginals(context.Background(), "12345", "100")
	if err != nil {
		t.Fatalf("rate limit should not be an error, got %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("posts = %+v, want empty", posts)
	}
}

func TestRecentOriginals_UpstreamError(t *testing.T) {
	c := clientWithTransport(func(*http.Request) (*http.Response, error) {
		return response(http.StatusForbidden, `forbidden`), nil
	})

	_, err := c.RecentOriginals(context.Background(), "12345", "100")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
}

func TestIsOriginal(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want bool
	}{
		{"no references", Post{ID: "1"}, true},
		{"empty references", Post{ID: "1", ReferencedTweets: []Reference{}}, true},
		{"quoted", Post{ID: "1", ReferencedTweets: []Reference{{Type: "quoted", ID: "9"}}}, false},
		{"replied_to only", Post{ID: "1", ReferencedTweets: []Reference{{Type: "replied_to", ID: "9"}}}, true},
		{"mixed with quote", Post{ID: "1", ReferencedTweets: []Reference{
			{Type: "replied_to", ID: "8"},
			{Type: "quoted", ID: "9"},
		}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOriginal(tt.post); got != tt.want {
				t.Errorf("IsOriginal = %v, want %v", got, tt.want)
			}
		})
	}
}
