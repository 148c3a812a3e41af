package loyalty

import (
	"errors"
	"time"

	"ecocreds/internal/models"
)

// ErrInsufficientPoints is returned when a negative delta would drive the
// balance below zero. Callers are expected to clamp redemptions before
// applying them, so hitting this indicates a logic error upstream.
var ErrInsufficientPoints = errors.New("insufficient points for redemption")

type Tier string

const (
	TierStarter   Tier = "Starter"
	TierExplorer  Tier = "Explorer"
	TierShopper   Tier = "Shopper"
	TierChampion  Tier = "Champion"
	TierProtector Tier = "Protector"
	TierMaster    Tier = "Master"
)

type tierBand struct {
	Threshold int64
	Tier      Tier
}

// tierTable is ordered by ascending threshold. The tier past the top band
// (Master) is a display label only and never becomes a current tier.
var tierTable = []tierBand{
	{Threshold: 0, Tier: TierStarter},
	{Threshold: 100, Tier: TierExplorer},
	{Threshold: 500, Tier: TierShopper},
	{Threshold: 2000, Tier: TierChampion},
	{Threshold: 5000, Tier: TierProtector},
}

// TierStatus is the derived loyalty standing for a point balance.
type TierStatus struct {
	CurrentTier    Tier    `json:"current_tier"`
	NextTier       Tier    `json:"next_tier"`
	ProgressToNext float64 `json:"progress_to_next"`
}

// Classify maps a cumulative point balance to its tier, the next tier and a
// 0-100 progress percentage through the current band. The top band is
// open-ended; progress there is measured against the band's own threshold
// and capped at 100.
func Classify(pointBalance int64) TierStatus {
	if pointBalance < 0 {
		pointBalance = 0
	}

	idx := 0
	for i, band := range tierTable {
		if pointBalance >= band.Threshold {
			idx = i
		}
	}

	current := tierTable[idx]

	if idx == len(tierTable)-1 {
		progress := float64(pointBalance-current.Threshold) / float64(current.Threshold) * 100
		if progress > 100 {
			progress = 100
		}
		return TierStatus{
			CurrentTier:    current.Tier,
			NextTier:       TierMaster,
			ProgressToNext: progress,
		}
	}

	next := tierTable[idx+1]
	progress := float64(pointBalance-current.Threshold) / float64(next.Threshold-current.Threshold) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return TierStatus{
		CurrentTier:    current.Tier,
		NextTier:       next.Tier,
		ProgressToNext: progress,
	}
}

// ApplyDelta is the only mutator of a loyalty account's balance. A positive
// delta records points earned, a negative delta records a redemption. The
// derived tier fields are recomputed on every call.
func ApplyDelta(account *models.LoyaltyAccount, delta int64) error {
	if delta < 0 && account.PointBalance+delta < 0 {
		return ErrInsufficientPoints
	}

	account.PointBalance += delta
	if delta > 0 {
		account.LifetimeEarned += delta
	} else {
		account.LifetimeRedeemed += -delta
	}

	status := Classify(account.PointBalance)
	account.CurrentTier = string(status.CurrentTier)
	account.NextTier = string(status.NextTier)
	account.ProgressToNext = status.ProgressToNext
	account.UpdatedAt = time.Now()

	return nil
}
