// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

// Package metadata publishes ARC-3 asset metadata documents through an
// external object-storage helper and enforces the protocol's asset URL
// length ceiling.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/asaforge-algo/asaforge/internal/util"
)

// MaxAssetURLLength is the protocol ceiling on an asset's URL field.
const MaxAssetURLLength = 96

// FallbackURL replaces storage URLs that exceed the ceiling. Lossy but
// deliberate: the metadata stays reachable through the storage service even
// when the on-chain pointer is this generic placeholder.
const FallbackURL = "https://asaforge.app/metadata"

// ErrUploadFailed indicates the underlying storage helper rejected the
// upload. Asset creation aborts before broadcast when this happens, so no
// on-chain asset is ever created without reachable metadata.
var ErrUploadFailed = errors.New("metadata upload failed")

// Uploader is the external storage boundary. Implementations publish the
// JSON payload and return its public URL.
type Uploader interface {
	Upload(ctx context.Context, payload []byte, bucket, name string) (string, error)
}

// UploadFunc adapts a plain function to the Uploader interface.
type UploadFunc func(ctx context.Context, payload []byte, bucket, name string) (string, error)

func (f UploadFunc) Upload(ctx context.Context, payload []byte, bucket, name string) (string, error) {
	return f(ctx, payload, bucket, name)
}

// Document is an ARC-3 style asset metadata descriptor.
type Document struct {
	Name          string            `json:"name"`
	UnitName      string            `json:"unitName,omitempty"`
	Description   string            `json:"description,omitempty"`
	Decimals      uint32            `json:"decimals"`
	Image         string            `json:"image,omitempty"`
	ImageMimetype string            `json:"image_mimetype,omitempty"`
	ExternalURL   string            `json:"external_url,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// PublishResult reports the URL to place in the asset's URL field.
type PublishResult struct {
	URL          string
	UsedFallback bool
}

// Publish uploads the document and post-checks the returned URL against the
// protocol ceiling, substituting FallbackURL when exceeded.
func Publish(ctx context.Context, uploader Uploader, doc Document, bucket, nameHint string) (PublishResult, error) {
	if uploader == nil {
		return PublishResult{}, fmt.Errorf("%w: no uploader configured", ErrUploadFailed)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return PublishResult{}, fmt.Errorf("%w: failed to encode document: %v", ErrUploadFailed, err)
	}

	name := nameHint
	if name == "" {
		name = "metadata"
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}

	url, err := uploader.Upload(ctx, payload, bucket, name)
	if err != nil {
		return PublishResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if url == "" {
		return PublishResult{}, fmt.Errorf("%w: storage returned empty URL", ErrUploadFailed)
	}

	if len(url) > MaxAssetURLLength {
		util.Warn("metadata URL exceeds protocol ceiling, substituting fallback",
			"length", len(url), "ceiling", MaxAssetURLLength, "fallback", FallbackURL)
		return PublishResult{URL: FallbackURL, UsedFallback: true}, nil
	}

	return PublishResult{URL: url}, nil
}
