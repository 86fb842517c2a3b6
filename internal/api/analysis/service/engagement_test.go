package analysisService

import (
	"testing"

	"ClassVision/internal/entity"
)

func TestEngagementMapperDefaults(t *testing.T) {
	mapper := NewEngagementMapper(defaultEngagedEmotions, defaultDisengagedEmotions)

	tests := []struct {
		name    string
		emotion string
		want    entity.EngagementLevel
	}{
		{"happy is engaged", "happy", entity.EngagementEngaged},
		{"surprise is engaged", "surprise", entity.EngagementEngaged},
		{"neutral is engaged", "neutral", entity.EngagementEngaged},
		{"sad is disengaged", "sad", entity.EngagementDisengaged},
		{"angry is disengaged", "angry", entity.EngagementDisengaged},
		{"fear is disengaged", "fear", entity.EngagementDisengaged},
		{"disgust is disengaged", "disgust", entity.EngagementDisengaged},
		{"unrecognized label", "confused", entity.EngagementUnknown},
		{"empty label", "", entity.EngagementUnknown},
		{"sentinel unknown", "unknown", entity.EngagementUnknown},
		{"uppercase input", "HAPPY", entity.EngagementEngaged},
		{"padded input", "  sad  ", entity.EngagementDisengaged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapper.Map(tt.emotion); got != tt.want {
				t.Errorf("Map(%q) = %q, want %q", tt.emotion, got, tt.want)
			}
		})
	}
}

func TestEngagementMapperCustomSets(t *testing.T) {
	mapper := NewEngagementMapper([]string{"focused"}, []string{"bored"})

	if got := mapper.Map("focused"); got != entity.EngagementEngaged {
		t.Errorf("Map(focused) = %q, want engaged", got)
	}
	if got := mapper.Map("bored"); got != entity.EngagementDisengaged {
		t.Errorf("Map(bored) = %q, want disengaged", got)
	}
	if got := mapper.Map("happy"); got != entity.EngagementUnknown {
		t.Errorf("Map(happy) = %q, want unknown for custom sets", got)
	}
}

func TestEngagementMapperOverlapPrefersEngaged(t *testing.T) {
	mapper := NewEngagementMapper([]string{"neutral"}, []string{"neutral", "sad"})

	if got := mapper.Map("neutral"); got != entity.EngagementEngaged {
		t.Errorf("Map(neutral) = %q, want engaged when label is in both sets", got)
	}
	if got := mapper.Map("sad"); got != entity.EngagementDisengaged {
		t.Errorf("Map(sad) = %q, want disengaged", got)
	}
}

func TestEngagementMapperFromEnv(t *testing.T) {
	t.Setenv("ENGAGED_EMOTIONS", "calm, Happy")
	t.Setenv("DISENGAGED_EMOTIONS", "sleepy")

	mapper := NewEngagementMapperFromEnv()

	if got := mapper.Map("calm"); got != entity.EngagementEngaged {
		t.Errorf("Map(calm) = %q, want engaged from env override", got)
	}
	if got := mapper.Map("happy"); got != entity.EngagementEngaged {
		t.Errorf("Map(happy) = %q, want engaged from env override", got)
	}
	if got := mapper.Map("sleepy"); got != entity.EngagementDisengaged {
		t.Errorf("Map(sleepy) = %q, want disengaged from env override", got)
	}
	if got := mapper.Map("sad"); got != entity.EngagementUnknown {
		t.Errorf("Map(sad) = %q, want unknown when not in env sets", got)
	}
}
