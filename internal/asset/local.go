package asset

import (
	"bytes"
	"context"
)

type localAssetKey struct{}

// localAsset is an asset the caller already holds in memory.
type localAsset struct {
	url  string
	data []byte
}

// WithLocalAsset returns a copy of ctx in which Fetch answers rawURL with
// data instead of issuing a request. A server uses it for assets it serves
// itself, so that rendering never waits on one of its own connection slots.
func WithLocalAsset(ctx context.Context, rawURL string, data []byte) context.Context {
	return context.WithValue(ctx, localAssetKey{}, localAsset{url: rawURL, data: data})
}

// localAssetFor returns the in-memory asset registered in ctx for rawURL.
func localAssetFor(ctx context.Context, rawURL string) ([]byte, bool) {
	a, ok := ctx.Value(localAssetKey{}).(localAsset)
	if !ok || a.url != rawURL {
		return nil, false
	}
	return bytes.Clone(a.data), true
}
