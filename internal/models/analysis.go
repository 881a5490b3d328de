package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CVAnalysis is the structured result of analyzing an uploaded CV. It is
// produced once per session (by the AI adapter or the fixed fallback) and
// feeds every subsequent question-generation and report call.
type CVAnalysis struct {
	Summary                 string   `json:"summary"`
	KeySkills               []string `json:"key_skills"`
	ExperienceYears         int      `json:"experience_years"`
	CareerStage             string   `json:"career_stage"`
	NotableAchievements     []string `json:"notable_achievements"`
	PotentialAreasForGrowth []string `json:"potential_areas_for_growth"`
}

// DecodeCVAnalysis parses a stored or AI-produced analysis payload with a
// strict decoder. Unknown fields are rejected rather than silently dropped.
func DecodeCVAnalysis(data []byte) (*CVAnalysis, error) {
	var analysis CVAnalysis
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to decode cv analysis: %w", err)
	}

	return &analysis, nil
}
