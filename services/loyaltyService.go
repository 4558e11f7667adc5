package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sokoline/sokoline-api/models"
	"gorm.io/gorm"
)

const (
	// pointsPerUnit is how much order value earns one loyalty point.
	pointsPerUnit = 100

	referrerBonus = 500
	refereeBonus  = 200
)

func getOrCreateLoyaltyAccount(db *gorm.DB, userID int) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := db.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.LoyaltyAccount{UserID: userID}
		if err := db.Create(&account).Error; err != nil {
			return nil, err
		}
		return &account, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func GetLoyaltyAccount(db *gorm.DB, userID int) (*models.LoyaltyAccount, error) {
	return getOrCreateLoyaltyAccount(db, userID)
}

func GetLoyaltyTransactions(db *gorm.DB, userID int) ([]models.LoyaltyTransaction, error) {
	account, err := getOrCreateLoyaltyAccount(db, userID)
	if err != nil {
		return nil, err
	}
	var transactions []models.LoyaltyTransaction
	err = db.Where("account_id = ?", account.ID).
		Order("created_at desc").
		Find(&transactions).Error
	return transactions, err
}

func addLoyaltyEntry(db *gorm.DB, userID, points int, entryType, note string) (*models.LoyaltyAccount, error) {
	var account *models.LoyaltyAccount
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = getOrCreateLoyaltyAccount(tx, userID)
		if err != nil {
			return err
		}

		if points < 0 && account.Points+points < 0 {
			return ErrInsufficientPoints
		}

		account.Points += points
		if err := tx.Save(account).Error; err != nil {
			return err
		}

		entry := models.LoyaltyTransaction{
			AccountID: int(account.ID),
			Points:    points,
			Type:      entryType,
			Note:      note,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func EarnPoints(db *gorm.DB, userID, points int, note string) (*models.LoyaltyAccount, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}
	return addLoyaltyEntry(db, userID, points, models.LoyaltyEarn, note)
}

func RedeemPoints(db *gorm.DB, userID, points int, note string) (*models.LoyaltyAccount, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}
	return addLoyaltyEntry(db, userID, -points, models.LoyaltyRedeem, note)
}

// GetReferralCode returns the user's shareable code, creating one on
// first request.
func GetReferralCode(db *gorm.DB, userID int) (*models.ReferralCode, error) {
	var code models.ReferralCode
	err := db.Where("user_id = ?", userID).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		code = models.ReferralCode{
			UserID: userID,
			Code:   strings.ToUpper(uuid.NewString()[:8]),
		}
		if err := db.Create(&code).Error; err != nil {
			return nil, err
		}
		return &code, nil
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// ApplyReferralCode links a new user to a referrer. Self-referral and
// second referrals are rejected; the reward is only paid once the
// referee's first order completes.
func ApplyReferralCode(db *gorm.DB, refereeID int, code string) (*models.Referral, error) {
	var referralCode models.ReferralCode
	if err := db.Where("code = ?", strings.ToUpper(code)).First(&referralCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	if referralCode.UserID == refereeID {
		return nil, ErrSelfReferral
	}

	var existing models.Referral
	err := db.Where("referee_id = ?", refereeID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReferred
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	referral := models.Referral{
		Code:       referralCode.Code,
		ReferrerID: referralCode.UserID,
		RefereeID:  refereeID,
	}
	if err := db.Create(&referral).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

// CompleteReferral pays out an open referral for the referee, if one
// exists. Called when the referee's first paid order lands; a user
// with no open referral is a no-op.
func CompleteReferral(db *gorm.DB, refereeID int) error {
	var referral models.Referral
	err := db.Where("referee_id = ? AND completed = ?", refereeID, false).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&referral).Update("completed", true).Error; err != nil {
			return err
		}
		if _, err := addLoyaltyEntry(tx, referral.ReferrerID, referrerBonus, models.LoyaltyReferral, "Referral reward"); err != nil {
			return err
		}
		_, err := addLoyaltyEntry(tx, referral.RefereeID, refereeBonus, models.LoyaltyReferral, "Welcome referral reward")
		return err
	})
}

func GetReferrals(db *gorm.DB, referrerID int) ([]models.Referral, error) {
	var referrals []models.Referral
	err := db.Where("referrer_id = ?", referrerID).
		Order("created_at desc").
		Find(&referrals).Error
	return referrals, err
}
