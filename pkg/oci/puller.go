/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package oci pulls helm chart packages from OCI registries.
package oci

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

const (
	// ConfigMediaType is the helm chart manifest config media type.
	ConfigMediaType = "application/vnd.cncf.helm.config.v1+json"

	// ChartLayerMediaType is the helm chart package content media type.
	ChartLayerMediaType = "application/vnd.cncf.helm.chart.content.v1.tar+gzip"

	// OCIScheme is the prefix stripped from oci:// chart references.
	OCIScheme = "oci://"
)

// PullResult describes a successfully pulled chart package.
type PullResult struct {
	// Ref is the fully resolved reference the chart was pulled from.
	Ref string

	// Digest is the manifest digest.
	Digest string

	// ChartData is the chart package (.tgz) content.
	ChartData []byte
}

// Puller downloads chart packages from an OCI registry.
type Puller struct {
	plainHTTP bool
	client    *auth.Client
}

// PullerOption configures a Puller.
type PullerOption func(*Puller)

// WithPlainHTTP disables TLS for registries reachable only over HTTP.
func WithPlainHTTP() PullerOption {
	return func(p *Puller) {
		p.plainHTTP = true
	}
}

// NewPuller returns a Puller with an anonymous retrying HTTP client.
func NewPuller(options ...PullerOption) *Puller {
	puller := &Puller{
		client: &auth.Client{
			Client: retry.DefaultClient,
			Cache:  auth.NewCache(),
		},
	}
	for _, option := range options {
		option(puller)
	}
	return puller
}

// Pull fetches the chart package at ref. The manifest is copied into an
// in-memory store and only helm media types are admitted; anything else in
// the manifest graph aborts the pull.
func (p *Puller) Pull(ctx context.Context, ref string) (*PullResult, error) {
	parsed, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}

	repository, err := remote.NewRepository(parsed.String())
	if err != nil {
		return nil, mserrors.Wrap(err, mserrors.ErrCodeInvalidRequest,
			"invalid chart reference %q", ref)
	}
	repository.PlainHTTP = p.plainHTTP
	repository.Client = p.client

	store := memory.New()
	allowedMediaTypes := []string{
		ocispec.MediaTypeImageManifest,
		ConfigMediaType,
		ChartLayerMediaType,
	}
	sort.Strings(allowedMediaTypes)

	var layers []ocispec.Descriptor
	var layersMutex sync.Mutex

	manifest, err := oras.Copy(ctx, repository, parsed.String(), store, "", oras.CopyOptions{
		CopyGraphOptions: oras.CopyGraphOptions{
			PreCopy: func(_ context.Context, desc ocispec.Descriptor) error {
				i := sort.SearchStrings(allowedMediaTypes, desc.MediaType)
				if i >= len(allowedMediaTypes) || allowedMediaTypes[i] != desc.MediaType {
					return fmt.Errorf("media type %q is not allowed, found in descriptor with digest %q",
						desc.MediaType, desc.Digest)
				}

				layersMutex.Lock()
				defer layersMutex.Unlock()
				layers = append(layers, desc)
				return nil
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pull chart %q: %w", ref, err)
	}

	var chartDescriptor *ocispec.Descriptor
	for _, descriptor := range layers {
		if descriptor.MediaType == ChartLayerMediaType {
			d := descriptor
			chartDescriptor = &d
		}
	}
	if chartDescriptor == nil {
		return nil, fmt.Errorf("manifest at %q does not contain a layer with media type %s",
			ref, ChartLayerMediaType)
	}

	chartData, err := content.FetchAll(ctx, store, *chartDescriptor)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve blob with digest %s: %w",
			chartDescriptor.Digest, err)
	}

	slog.Info("pulled chart",
		"ref", parsed.String(),
		"digest", manifest.Digest.String(),
		"size", chartDescriptor.Size)

	return &PullResult{
		Ref:       parsed.String(),
		Digest:    manifest.Digest.String(),
		ChartData: chartData,
	}, nil
}

// PullToFile pulls ref and writes the chart package into destDir, returning
// the written file path.
func (p *Puller) PullToFile(ctx context.Context, ref, destDir string) (string, error) {
	result, err := p.Pull(ctx, ref)
	if err != nil {
		return "", err
	}

	parsed, err := reference.ParseNormalizedNamed(strings.TrimPrefix(result.Ref, OCIScheme))
	if err != nil {
		return "", mserrors.Wrap(err, mserrors.ErrCodeInvalidRequest,
			"invalid chart reference %q", result.Ref)
	}
	name := filepath.Base(reference.Path(parsed))
	tag := "latest"
	if tagged, ok := parsed.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	path := filepath.Join(destDir, fmt.Sprintf("%s-%s.tgz", name, tag))
	if err := os.WriteFile(path, result.ChartData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write chart package: %w", err)
	}
	return path, nil
}

// ParseReference validates a chart reference, accepting and stripping the
// oci:// scheme. A reference without a tag or digest is rejected so a pull
// never silently floats to latest.
func ParseReference(ref string) (reference.NamedTagged, error) {
	trimmed := strings.TrimPrefix(ref, OCIScheme)

	named, err := reference.ParseNormalizedNamed(trimmed)
	if err != nil {
		return nil, mserrors.Wrap(err, mserrors.ErrCodeInvalidRequest,
			"invalid chart reference %q", ref)
	}
	tagged, ok := named.(reference.NamedTagged)
	if !ok {
		return nil, mserrors.New(mserrors.ErrCodeInvalidRequest,
			"chart reference %q must carry an explicit tag", ref)
	}
	return tagged, nil
}

// TagRegexp is unanchored; anchor it so trailing junk cannot sneak through.
var anchoredTagRegexp = regexp.MustCompile(`^` + reference.TagRegexp.String() + `$`)

// ValidateTag reports whether tag is a syntactically valid image tag.
func ValidateTag(tag string) error {
	if !anchoredTagRegexp.MatchString(tag) {
		return mserrors.New(mserrors.ErrCodeInvalidRequest,
			"%q is not a valid image tag", tag)
	}
	return nil
}
