package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ScratchTimerKey returns the cache key for a user's remaining assessment
// seconds, scoped by assessment kind (quiz/mock) and language.
func (r *CacheKeyStruct) ScratchTimerKey(userID int, kind, language string) string {
	return fmt.Sprintf("scratch:%d:%s-%s-timer", userID, kind, language)
}

// ScratchAnswersKey returns the cache key for a user's in-progress answers.
// Only the quiz variant writes this key.
func (r *CacheKeyStruct) ScratchAnswersKey(userID int, kind, language string) string {
	return fmt.Sprintf("scratch:%d:%s-%s-answers", userID, kind, language)
}

// PoolPayloadKey returns the cache key for a language's question pool payload.
func (r *CacheKeyStruct) PoolPayloadKey(kind, language string) string {
	return fmt.Sprintf("pool:%s:%s", kind, language)
}

// StudyPlanWorklistKey returns the cache key for the set of languages whose
// quiz was newly completed and still needs a study plan generated.
func (r *CacheKeyStruct) StudyPlanWorklistKey(userID int) string {
	return fmt.Sprintf("worklist:%d:study_plan", userID)
}

// RoadmapWorklistKey returns the cache key for the set of languages whose
// quiz was newly completed and still needs a roadmap generated.
func (r *CacheKeyStruct) RoadmapWorklistKey(userID int) string {
	return fmt.Sprintf("worklist:%d:roadmap", userID)
}

var CacheKey = NewCacheKeyStruct()
