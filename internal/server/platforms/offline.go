package platforms

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// OfflinePoster simulates a platform. Post ids derive from the idempotency
// key, so re-posting the same content yields the same id. Metrics are zero.
type OfflinePoster struct {
	platform models.Platform
}

func NewOfflinePoster(platform models.Platform) *OfflinePoster {
	return &OfflinePoster{platform: platform}
}

func (p *OfflinePoster) Platform() models.Platform { return p.platform }

func (p *OfflinePoster) Post(ctx context.Context, creds models.Credentials, content ListingContent) (*PostResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if content.Title == "" {
		return nil, fmt.Errorf("%w: empty title", common.ErrPostingFailure)
	}

	sum := sha256.Sum256([]byte(string(p.platform) + "|" + content.IdempotencyKey))
	id := fmt.Sprintf("%s_%s", p.platform, hex.EncodeToString(sum[:8]))

	return &PostResult{PlatformPostID: id, URL: fmt.Sprintf("offline://%s/%s", p.platform, id)}, nil
}

func (p *OfflinePoster) Metrics(ctx context.Context, creds models.Credentials, platformPostID string) (*models.PostMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.PostMetrics{}, nil
}
