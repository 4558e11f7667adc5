package models

import "gorm.io/gorm"

const (
	LoyaltyEarn     = "EARN"
	LoyaltyRedeem   = "REDEEM"
	LoyaltyReferral = "REFERRAL"
)

type LoyaltyAccount struct {
	gorm.Model
	UserID int `json:"userId" gorm:"uniqueIndex"`
	Points int `json:"points"`
}

// LoyaltyTransaction is one ledger entry. Points are signed: earns
// are positive, redemptions negative.
type LoyaltyTransaction struct {
	gorm.Model
	AccountID int    `json:"accountId" gorm:"index"`
	Points    int    `json:"points"`
	Type      string `json:"type"`
	Note      string `json:"note"`
}

type ReferralCode struct {
	gorm.Model
	UserID int    `json:"userId" gorm:"uniqueIndex"`
	Code   string `json:"code" gorm:"uniqueIndex"`
}

// Referral links a referee to the referrer whose code they used.
// One referral per referee, completed once their first order is paid.
type Referral struct {
	gorm.Model
	Code       string `json:"code"`
	ReferrerID int    `json:"referrerId" gorm:"index"`
	RefereeID  int    `json:"refereeId" gorm:"uniqueIndex"`
	Completed  bool   `json:"completed"`
}
