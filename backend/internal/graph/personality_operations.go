package graph

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "buffr-host/backend/pkg/errors"
)

// ============================================================================
// Personality Profile Snapshots
// ============================================================================

// StorePersonalityProfile upserts the serialized trait profile for a
// tenant/property pair so adapted traits survive restarts
func (r *Repository) StorePersonalityProfile(ctx context.Context, tenantID, propertyID, profileJSON string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MERGE (t:Tenant {id: $tenantID})
		MERGE (t)-[:HAS_PROFILE]->(p:PersonalityProfile {property_id: $propertyID})
		SET p.tenant_id = $tenantID,
		    p.profile_data = $profileJSON,
		    p.updated_at = $now
		RETURN p.property_id as property_id
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID":    tenantID,
		"propertyID":  propertyID,
		"profileJSON": profileJSON,
		"now":         now,
	})
	if err != nil {
		return apperrors.NewStorageUnavailable("neo4j", err)
	}

	r.logger.Info("Personality profile stored",
		zap.String("tenant_id", tenantID),
		zap.String("property_id", propertyID),
	)

	return nil
}

// GetPersonalityProfile returns the stored profile JSON, or "" when the
// tenant/property pair has never been snapshotted
func (r *Repository) GetPersonalityProfile(ctx context.Context, tenantID, propertyID string) (string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (t:Tenant {id: $tenantID})-[:HAS_PROFILE]->(p:PersonalityProfile {property_id: $propertyID})
		RETURN p.profile_data as profile_data
		LIMIT 1
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID":   tenantID,
		"propertyID": propertyID,
	})
	if err != nil {
		return "", apperrors.NewStorageUnavailable("neo4j", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", apperrors.NewStorageUnavailable("neo4j", err)
		}
		return "", nil
	}

	return getStringFromRecord(result.Record(), "profile_data"), nil
}
