// Package rotarod builds learning curves from rotarod latency-to-fall trials.
package rotarod

import (
	"sort"

	"github.com/harrison/fieldstat/internal/groupstats"
	"github.com/harrison/fieldstat/internal/models"
)

// Point is one session on a learning curve
type Point struct {
	Session int     `json:"session"`
	Latency float64 `json:"latency_to_fall"`
}

// Curve is a single subject's latency to fall across sessions
type Curve struct {
	SubjectID string     `json:"subject_id"`
	Sex       models.Sex `json:"sex"`
	Color     string     `json:"color"`
	Points    []Point    `json:"points"`
}

// SessionStat is the mean and SEM latency of one sex in one session
type SessionStat struct {
	Session int     `json:"session"`
	N       int     `json:"n"`
	Mean    float64 `json:"mean"`
	SEM     float64 `json:"sem"`
}

// SexCurve is the mean learning curve of one sex
type SexCurve struct {
	Sex      models.Sex    `json:"sex"`
	Subjects int           `json:"subjects"`
	Sessions []SessionStat `json:"sessions"`
}

// AssignSessions numbers each subject's trials 1..n in chronological order.
// Trials are ordered by subject, then timestamp; trials without a timestamp
// sort after dated ones and otherwise keep their input order. The input slice
// is not modified.
func AssignSessions(trials []models.RotarodTrial) []models.RotarodTrial {
	out := make([]models.RotarodTrial, len(trials))
	copy(out, trials)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		if a.Timestamp.IsZero() != b.Timestamp.IsZero() {
			return !a.Timestamp.IsZero()
		}
		return a.Timestamp.Before(b.Timestamp)
	})

	session := 0
	for i := range out {
		if i == 0 || out[i].SubjectID != out[i-1].SubjectID {
			session = 0
		}
		session++
		out[i].Session = session
	}
	return out
}

// Curves returns one learning curve per subject, sorted by subject ID, with
// points ordered by session.
func Curves(trials []models.RotarodTrial) []Curve {
	bySubject := make(map[string]*Curve)
	var ids []string
	for _, tr := range trials {
		c, ok := bySubject[tr.SubjectID]
		if !ok {
			sex := tr.Sex
			if sex == models.SexUnknown {
				sex, _ = models.ParseUnitID(tr.SubjectID)
			}
			_, group := models.ParseUnitID(tr.SubjectID)
			c = &Curve{SubjectID: tr.SubjectID, Sex: sex, Color: models.PlotColor(sex, group)}
			bySubject[tr.SubjectID] = c
			ids = append(ids, tr.SubjectID)
		}
		c.Points = append(c.Points, Point{Session: tr.Session, Latency: tr.LatencyToFall})
	}

	sort.Strings(ids)
	curves := make([]Curve, 0, len(ids))
	for _, id := range ids {
		c := bySubject[id]
		sort.SliceStable(c.Points, func(i, j int) bool { return c.Points[i].Session < c.Points[j].Session })
		curves = append(curves, *c)
	}
	return curves
}

// SexComparison computes, for each sex present, the mean and SEM latency per session.
// Sexes with no trials are omitted. Trials whose sex cannot be determined are ignored.
func SexComparison(trials []models.RotarodTrial) []SexCurve {
	type bucket struct {
		subjects map[string]bool
		sessions map[int][]float64
	}
	buckets := make(map[models.Sex]*bucket)

	for _, tr := range trials {
		sex := tr.Sex
		if sex == models.SexUnknown {
			sex, _ = models.ParseUnitID(tr.SubjectID)
		}
		if sex == models.SexUnknown {
			continue
		}
		b, ok := buckets[sex]
		if !ok {
			b = &bucket{subjects: make(map[string]bool), sessions: make(map[int][]float64)}
			buckets[sex] = b
		}
		b.subjects[tr.SubjectID] = true
		b.sessions[tr.Session] = append(b.sessions[tr.Session], tr.LatencyToFall)
	}

	var curves []SexCurve
	for _, sex := range []models.Sex{models.SexMale, models.SexFemale} {
		b, ok := buckets[sex]
		if !ok {
			continue
		}

		sessions := make([]int, 0, len(b.sessions))
		for s := range b.sessions {
			sessions = append(sessions, s)
		}
		sort.Ints(sessions)

		curve := SexCurve{Sex: sex, Subjects: len(b.subjects)}
		for _, s := range sessions {
			mean, sem, _ := groupstats.Describe(b.sessions[s])
			curve.Sessions = append(curve.Sessions, SessionStat{
				Session: s,
				N:       len(b.sessions[s]),
				Mean:    mean,
				SEM:     sem,
			})
		}
		curves = append(curves, curve)
	}
	return curves
}
