package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
	"github.com/casccoach/platform/backend/internal/wizard"
)

const wizardKeyPrefix = "wizard:"

// WizardStore keeps wizard sessions as JSON with a sliding TTL. A session
// that is not touched for ttl is dropped, which is how abandoned wizards
// are discarded.
type WizardStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWizardStore returns a WizardStore writing through client.
func NewWizardStore(client *redis.Client, ttl time.Duration) *WizardStore {
	return &WizardStore{client: client, ttl: ttl}
}

// saveScript refuses to overwrite a session that already reached the
// submitted step, so a late edit can never reopen a finished wizard.
var saveScript = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur and cjson.decode(cur).step == ARGV[3] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// Save stores st and restarts its TTL. Returns wizard.ErrSubmitted when the
// stored session is already submitted.
func (s *WizardStore) Save(ctx context.Context, st wizard.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("cache.WizardStore.Save: marshal: %w", err)
	}
	saved, err := saveScript.Run(ctx, s.client, []string{wizardKey(st.ID)},
		b, s.ttl.Milliseconds(), wizard.StepSubmitted.String()).Int()
	if err != nil {
		return fmt.Errorf("cache.WizardStore.Save: %w", err)
	}
	if saved == 0 {
		return fmt.Errorf("cache.WizardStore.Save: %w", wizard.ErrSubmitted)
	}
	return nil
}

// Load returns the stored session. Returns domain.ErrNotFound if it never
// existed or has expired.
func (s *WizardStore) Load(ctx context.Context, id uuid.UUID) (wizard.State, error) {
	b, err := s.client.Get(ctx, wizardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return wizard.State{}, fmt.Errorf("cache.WizardStore.Load: %w", domain.ErrNotFound)
		}
		return wizard.State{}, fmt.Errorf("cache.WizardStore.Load: %w", err)
	}

	var st wizard.State
	if err := json.Unmarshal(b, &st); err != nil {
		return wizard.State{}, fmt.Errorf("cache.WizardStore.Load: decode: %w", err)
	}
	return st, nil
}

// Delete discards a session. Deleting a missing session is not an error.
func (s *WizardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, wizardKey(id)).Err(); err != nil {
		return fmt.Errorf("cache.WizardStore.Delete: %w", err)
	}
	return nil
}

func wizardKey(id uuid.UUID) string {
	return wizardKeyPrefix + id.String()
}
