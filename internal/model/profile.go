package model

import (
	"context"
	"fmt"
)

// Metrics holds the three free-text indicators printed on the PDF report.
type Metrics struct {
	// HeartRateAvg is the daily average heart rate, e.g. "72 bpm (moyenne journée)".
	HeartRateAvg string `json:"heartRateAvg"`

	// RespirationAvg is the daily average respiration rate.
	RespirationAvg string `json:"respirationAvg"`

	// SleepRhythm describes sleep duration and quality.
	SleepRhythm string `json:"sleepRhythm"`
}

// Readings holds the numeric values behind Metrics as shown on the
// professional dashboard.
type Readings struct {
	// BPM is the average heart rate in beats per minute.
	BPM int `json:"bpm"`

	// Respiration is the average number of breaths per minute.
	Respiration int `json:"respiration"`

	// SleepScore is the sleep quality score out of 100.
	SleepScore int `json:"sleepScore"`

	// SleepDuration is the human-readable sleep duration, e.g. "7 h 40".
	SleepDuration string `json:"sleepDuration"`

	// Comment is the practitioner-facing remark for this profile.
	Comment string `json:"comment"`
}

// Profile describes one fictitious subject wearing a band.
// Dates are stored as already-localized strings (dd/mm/yyyy).
type Profile struct {
	BandID    BandID   `json:"bandId"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	BirthDate string   `json:"birthDate"`
	Dossier   string   `json:"dossier"`
	ExamDate  string   `json:"examDate"`
	Metrics   Metrics  `json:"metrics"`
	Readings  Readings `json:"readings"`
}

// FullName returns "FirstName LastName".
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ProfileSource resolves band identifiers to profiles.
// Implementations must be safe for concurrent use.
type ProfileSource interface {
	// Lookup returns the profile registered for id, or an error wrapping
	// ErrProfileNotFound.
	Lookup(ctx context.Context, id BandID) (Profile, error)
}

// FixtureSource serves the hard-coded profile table.
// The table is built by NewFixtureSource and never mutated afterwards,
// so a FixtureSource can be shared between goroutines without locking.
type FixtureSource struct {
	profiles map[BandID]Profile
}

var _ ProfileSource = (*FixtureSource)(nil)

// NewFixtureSource returns a source backed by the two fixture profiles.
func NewFixtureSource() *FixtureSource {
	return &FixtureSource{
		profiles: map[BandID]Profile{
			BandAudreyMartin: {
				BandID:    BandAudreyMartin,
				FirstName: "Audrey",
				LastName:  "Martin",
				BirthDate: "04/07/1985",
				Dossier:   "2025-001-AM",
				ExamDate:  "10/12/2025",
				Metrics: Metrics{
					HeartRateAvg:   "102 bpm (moyenne journée)",
					RespirationAvg: "22 / min (moyenne journée)",
					SleepRhythm:    "Sommeil court, 5 h 40 – score 58/100",
				},
				Readings: Readings{
					BPM:           102,
					Respiration:   22,
					SleepScore:    58,
					SleepDuration: "5 h 40",
					Comment:       "Profil en fin de période chargée, tension physiologique à surveiller.",
				},
			},
			BandFabriceDurand: {
				BandID:    BandFabriceDurand,
				FirstName: "Fabrice",
				LastName:  "Durand",
				BirthDate: "19/03/1979",
				Dossier:   "2025-002-FD",
				ExamDate:  "10/12/2025",
				Metrics: Metrics{
					HeartRateAvg:   "72 bpm (moyenne journée)",
					RespirationAvg: "15 / min (moyenne journée)",
					SleepRhythm:    "Sommeil réparateur, 7 h 40 – score 86/100",
				},
				Readings: Readings{
					BPM:           72,
					Respiration:   15,
					SleepScore:    86,
					SleepDuration: "7 h 40",
					Comment:       "Profil globalement stable, bonne récupération nocturne.",
				},
			},
		},
	}
}

// Lookup returns the fixture profile for id.
func (s *FixtureSource) Lookup(_ context.Context, id BandID) (Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: band %q", ErrProfileNotFound, id)
	}
	return p, nil
}
