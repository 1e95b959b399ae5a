package personality

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"buffr-host/backend/pkg/logger"
)

// Trait is one adjustable dimension of the agent's voice.
type Trait string

const (
	TraitWarmth      Trait = "warmth"
	TraitFormality   Trait = "formality"
	TraitEmpathy     Trait = "empathy"
	TraitEnergy      Trait = "energy"
	TraitProactivity Trait = "proactivity"
)

// AllTraits lists every trait a profile carries.
var AllTraits = []Trait{TraitWarmth, TraitFormality, TraitEmpathy, TraitEnergy, TraitProactivity}

// Moods derived from trait values.
const (
	MoodUpbeat    = "upbeat"
	MoodAttentive = "attentive"
	MoodConcerned = "concerned"
	MoodNeutral   = "neutral"
)

// Profile is the agent's voice for one (tenant, property). Trait values
// stay in [0, 1].
type Profile struct {
	TenantID   string            `json:"tenantId"`
	PropertyID string            `json:"propertyId"`
	Traits     map[Trait]float64 `json:"traits"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Mood derives the profile's current register from its traits. Thresholds
// are fixed, so equal traits always name the same mood. A profile leaning
// hard into empathy reads as concerned even when energy is high.
func (p Profile) Mood() string {
	switch {
	case p.Traits[TraitEmpathy] >= 0.75:
		return MoodConcerned
	case p.Traits[TraitEnergy] >= 0.65 && p.Traits[TraitWarmth] >= 0.6:
		return MoodUpbeat
	case p.Traits[TraitProactivity] >= 0.6:
		return MoodAttentive
	default:
		return MoodNeutral
	}
}

// SnapshotStore persists profile snapshots between processes. The graph
// repository implements it.
type SnapshotStore interface {
	StorePersonalityProfile(ctx context.Context, tenantID, propertyID, profileJSON string) error
	GetPersonalityProfile(ctx context.Context, tenantID, propertyID string) (string, error)
}

// Engine adapts one profile per (tenant, property). Safe for concurrent
// use. Snapshot failures never fail a caller; the engine degrades to
// in-memory operation.
type Engine struct {
	mu        sync.RWMutex
	profiles  map[string]*Profile
	rate      float64
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewEngine creates an engine. rate is the per-step learning rate in
// (0, 1]; out-of-range values fall back to 0.2. snapshots may be nil.
func NewEngine(rate float64, snapshots SnapshotStore) *Engine {
	if rate <= 0 || rate > 1 {
		rate = 0.2
	}
	return &Engine{
		profiles:  make(map[string]*Profile),
		rate:      rate,
		snapshots: snapshots,
		logger:    logger.Named("personality"),
	}
}

func profileKey(tenantID, propertyID string) string {
	return tenantID + "/" + propertyID
}

// defaultProfile is the voice a property starts with: warm and balanced.
func defaultProfile(tenantID, propertyID string) *Profile {
	return &Profile{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Traits: map[Trait]float64{
			TraitWarmth:      0.7,
			TraitFormality:   0.5,
			TraitEmpathy:     0.6,
			TraitEnergy:      0.5,
			TraitProactivity: 0.5,
		},
		UpdatedAt: time.Now().UTC(),
	}
}

// profileFor returns the live profile, loading a persisted snapshot on
// first touch. Callers must hold the write lock.
func (e *Engine) profileFor(ctx context.Context, tenantID, propertyID string) *Profile {
	key := profileKey(tenantID, propertyID)
	if profile, ok := e.profiles[key]; ok {
		return profile
	}

	profile := defaultProfile(tenantID, propertyID)
	if e.snapshots != nil {
		snapshot, err := e.snapshots.GetPersonalityProfile(ctx, tenantID, propertyID)
		if err != nil {
			e.logger.Warn("Could not load personality snapshot",
				zap.String("tenant_id", tenantID),
				zap.String("property_id", propertyID),
				zap.Error(err),
			)
		} else if snapshot != "" {
			var stored Profile
			if err := json.Unmarshal([]byte(snapshot), &stored); err != nil {
				e.logger.Warn("Discarding unreadable personality snapshot",
					zap.String("tenant_id", tenantID),
					zap.Error(err),
				)
			} else if len(stored.Traits) > 0 {
				profile.Traits = stored.Traits
				for trait := range profile.Traits {
					profile.Traits[trait] = clamp(profile.Traits[trait])
				}
				profile.UpdatedAt = stored.UpdatedAt
			}
		}
	}

	e.profiles[key] = profile
	return profile
}

// Adapt moves the profile's traits one bounded step toward the targets the
// signal implies and returns the adapted snapshot. Repeated identical
// signals converge on the targets; traits never leave [0, 1].
func (e *Engine) Adapt(ctx context.Context, tenantID, propertyID string, signal Signal) Profile {
	e.mu.Lock()
	profile := e.profileFor(ctx, tenantID, propertyID)

	targets := signal.traitTargets()
	for trait, target := range targets {
		current := profile.Traits[trait]
		profile.Traits[trait] = clamp(current + e.rate*(target-current))
	}
	profile.UpdatedAt = time.Now().UTC()

	snapshot := copyProfile(profile)
	e.mu.Unlock()

	e.persist(ctx, snapshot)
	return snapshot
}

// Update sets trait values directly, clamped to [0, 1]. Traits not named
// keep their current values.
func (e *Engine) Update(ctx context.Context, tenantID, propertyID string, traits map[Trait]float64) Profile {
	e.mu.Lock()
	profile := e.profileFor(ctx, tenantID, propertyID)

	for trait, value := range traits {
		profile.Traits[trait] = clamp(value)
	}
	profile.UpdatedAt = time.Now().UTC()

	snapshot := copyProfile(profile)
	e.mu.Unlock()

	e.persist(ctx, snapshot)
	return snapshot
}

// Export returns a deep copy of the profile; mutating it cannot touch the
// engine's state.
func (e *Engine) Export(ctx context.Context, tenantID, propertyID string) Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyProfile(e.profileFor(ctx, tenantID, propertyID))
}

// Ping reports whether the snapshot backing is reachable. An engine
// without snapshots runs in-memory and is always healthy.
func (e *Engine) Ping(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	_, err := e.snapshots.GetPersonalityProfile(ctx, "health", "probe")
	return err
}

func (e *Engine) persist(ctx context.Context, profile Profile) {
	if e.snapshots == nil {
		return
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		e.logger.Warn("Could not encode personality snapshot", zap.Error(err))
		return
	}
	if err := e.snapshots.StorePersonalityProfile(ctx, profile.TenantID, profile.PropertyID, string(encoded)); err != nil {
		e.logger.Warn("Could not persist personality snapshot",
			zap.String("tenant_id", profile.TenantID),
			zap.String("property_id", profile.PropertyID),
			zap.Error(err),
		)
	}
}

func copyProfile(profile *Profile) Profile {
	traits := make(map[Trait]float64, len(profile.Traits))
	for trait, value := range profile.Traits {
		traits[trait] = value
	}
	return Profile{
		TenantID:   profile.TenantID,
		PropertyID: profile.PropertyID,
		Traits:     traits,
		UpdatedAt:  profile.UpdatedAt,
	}
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
