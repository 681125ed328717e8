/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"based/domain"
	"based/domain/config"
	"based/infrastructure/dbhandler"
	"based/infrastructure/feed"
	"based/infrastructure/token"
	"based/interface/repository"
	"based/usecase"
	"database/sql"
	"log"
	"time"
)

const (
	policyCheckpointKey = "treasury_policy"

	StableTokenAddress = "based.token"
	BondTokenAddress   = "bbond.token"
	ShareTokenAddress  = "bshare.token"
)

func openDbPool() dbhandler.DBHandler {
	var err error
	dbPool, err = sql.Open("postgres", config.GetDbUri())
	if err != nil {
		log.Fatal(err)
	}
	dbPool.SetMaxOpenConns(20)
	dbPool.SetMaxIdleConns(5)
	dbPool.SetConnMaxIdleTime(1 * time.Minute)
	dbPool.SetConnMaxLifetime(4 * time.Hour)

	return dbhandler.DBHandler{DB: dbPool}
}

func defaultDependencyInject() {
	dbHandler := openDbPool()

	eventRepository = repository.NewEventRepository(dbHandler)
	checkpointRepository = repository.NewCheckpointRepository(dbHandler)
	priceRepository = repository.NewPriceRepository(dbHandler)
	snapshotRepository = repository.NewSnapshotRepository(dbHandler)

	priceFeed = feed.NewPriceFeed(priceRepository)

	// The managed tokens live in this process; the treasury address holds the
	// operator role on each of them, as every policy tick requires.
	stableToken = token.NewLedger(StableTokenAddress)
	bondToken = token.NewLedger(BondTokenAddress)
	shareToken = token.NewLedger(ShareTokenAddress)
	stableToken.GrantRole(domain.RoleOperator, config.GetTreasuryAddress())
	bondToken.GrantRole(domain.RoleOperator, config.GetTreasuryAddress())
	shareToken.GrantRole(domain.RoleOperator, config.GetTreasuryAddress())

	stakeWrapper := token.NewStakeWrapper(shareToken, config.GetForgeAddress())

	policyState := domain.DefaultPolicyState()
	policyState.EpochPeriod = config.GetEpochPeriod()
	policyState.DaoFund = config.GetDaoFundAddress()
	policyState.DevFund = config.GetDevFundAddress()

	height := func() uint64 { return uint64(time.Now().Unix()) }

	treasuryInteractor = usecase.NewTreasuryInteractor(
		policyState,
		stableToken, bondToken, shareToken,
		priceFeed,
		nil, // forge is wired right below
		eventRepository,
		usecase.NewEntryGuard(height),
		config.GetTreasuryAddress(),
		config.GetForgeAddress(),
		config.GetOperatorAddress(),
	)

	forgeInteractor = usecase.NewForgeInteractor(
		shareToken, stableToken,
		stakeWrapper,
		treasuryInteractor,
		eventRepository,
		usecase.NewEntryGuard(height),
		snapshotRepository,
		config.GetForgeAddress(),
		config.GetTreasuryAddress(),
	)
	treasuryInteractor.SetForge(forgeInteractor)

	if err := forgeInteractor.SetLockUp(config.GetTreasuryAddress(),
		config.GetWithdrawLockupEpochs(), config.GetRewardLockupEpochs()); err != nil {
		log.Fatalf("Unable to set forge lockups - %v\n", err.Error())
	}

	restoreOrStart()
}

// restoreOrStart resumes from the persisted checkpoint, or starts the
// treasury fresh at the next full minute when none exists yet.
func restoreOrStart() {
	checkpoint, err := checkpointRepository.Find(policyCheckpointKey)
	if err != nil {
		log.Fatalf("Unable to read policy checkpoint - %v\n", err.Error())
	}

	if checkpoint != nil {
		restored := domain.PolicyCheckpoint{}
		if err := restored.FromJson(checkpoint.State); err != nil {
			log.Fatalf("Unable to parse policy checkpoint - %v\n", err.Error())
		}
		if err := treasuryInteractor.RestoreCheckpoint(&restored); err != nil {
			log.Fatalf("Unable to restore policy checkpoint - %v\n", err.Error())
		}
		log.Printf("resumed at epoch %v\n", treasuryInteractor.Epoch())
		return
	}

	startTime := time.Now().Truncate(time.Minute).Add(time.Minute)
	if err := treasuryInteractor.Start(config.GetOperatorAddress(), startTime); err != nil {
		log.Fatalf("Unable to start the treasury - %v\n", err.Error())
	}
	log.Printf("treasury started, first epoch point at %v\n", startTime)
}

var dbPool *sql.DB
var stableToken *token.Ledger
var bondToken *token.Ledger
var shareToken *token.Ledger
var priceFeed *feed.PriceFeed
var eventRepository *repository.EventRepository
var checkpointRepository *repository.CheckpointRepository
var priceRepository *repository.PriceRepository
var snapshotRepository *repository.SnapshotRepository
var treasuryInteractor *usecase.TreasuryInteractor
var forgeInteractor *usecase.ForgeInteractor
