package domain

import "strings"

// Level is the academic level the notes are written for.
type Level string

const (
	LevelMiddleSchool  Level = "middle-school"
	LevelHighSchool    Level = "high-school"
	LevelUndergraduate Level = "undergraduate"
	LevelGraduate      Level = "graduate"
	LevelProfessional  Level = "professional"

	DefaultLevel = LevelHighSchool
)

var levelLabels = map[Level]string{
	LevelMiddleSchool:  "middle school",
	LevelHighSchool:    "high school",
	LevelUndergraduate: "undergraduate university",
	LevelGraduate:      "graduate",
	LevelProfessional:  "professional",
}

// Levels lists the options in display order.
func Levels() []Level {
	return []Level{LevelMiddleSchool, LevelHighSchool, LevelUndergraduate, LevelGraduate, LevelProfessional}
}

// ParseLevel normalizes a form value. The empty string maps to def.
func ParseLevel(s string, def Level) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, true
	}
	l := Level(s)
	_, ok := levelLabels[l]
	return l, ok
}

// Label returns the phrase used in the system instruction.
func (l Level) Label() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return levelLabels[DefaultLevel]
}
