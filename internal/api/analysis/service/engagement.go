package analysisService

import (
	"os"
	"strings"

	"ClassVision/internal/entity"
)

var (
	defaultEngagedEmotions    = []string{"happy", "surprise", "neutral"}
	defaultDisengagedEmotions = []string{"sad", "angry", "fear", "disgust"}
)

// EngagementMapper classifies an emotion label into an engagement level.
// The two label sets are disjoint; anything outside both maps to unknown,
// so the mapping is defined for every input.
type EngagementMapper struct {
	engaged    map[string]struct{}
	disengaged map[string]struct{}
}

func NewEngagementMapper(engaged, disengaged []string) *EngagementMapper {
	m := &EngagementMapper{
		engaged:    make(map[string]struct{}, len(engaged)),
		disengaged: make(map[string]struct{}, len(disengaged)),
	}

	for _, label := range engaged {
		m.engaged[normalizeLabel(label)] = struct{}{}
	}

	for _, label := range disengaged {
		if _, ok := m.engaged[normalizeLabel(label)]; ok {
			continue
		}
		m.disengaged[normalizeLabel(label)] = struct{}{}
	}

	return m
}

// NewEngagementMapperFromEnv reads ENGAGED_EMOTIONS and DISENGAGED_EMOTIONS
// as comma-separated lists, falling back to the built-in sets.
func NewEngagementMapperFromEnv() *EngagementMapper {
	engaged := splitLabels(os.Getenv("ENGAGED_EMOTIONS"), defaultEngagedEmotions)
	disengaged := splitLabels(os.Getenv("DISENGAGED_EMOTIONS"), defaultDisengagedEmotions)
	return NewEngagementMapper(engaged, disengaged)
}

func (m *EngagementMapper) Map(emotion string) entity.EngagementLevel {
	label := normalizeLabel(emotion)

	if _, ok := m.engaged[label]; ok {
		return entity.EngagementEngaged
	}

	if _, ok := m.disengaged[label]; ok {
		return entity.EngagementDisengaged
	}

	return entity.EngagementUnknown
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func splitLabels(raw string, fallback []string) []string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		if label := normalizeLabel(part); label != "" {
			labels = append(labels, label)
		}
	}

	if len(labels) == 0 {
		return fallback
	}

	return labels
}
