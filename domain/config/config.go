package config

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrorInvalidEpochPeriod   = fmt.Errorf("invalid duration for epoch period")
	ErrorInvalidTickInterval  = fmt.Errorf("invalid time interval for the policy tick check")
	ErrorNoTreasuryAddress    = fmt.Errorf("no treasury address is defined")
	ErrorNoForgeAddress       = fmt.Errorf("no forge address is defined")
	ErrorNoOperatorAddress    = fmt.Errorf("no operator address is defined")
	ErrorInvalidLockupEpochs  = fmt.Errorf("withdraw lockup must cover the reward lockup and stay at most 56 epochs")
	ErrorInvalidMetricAddress = fmt.Errorf("invalid listen address for metrics")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	dbUri string

	treasuryAddress string
	forgeAddress    string
	operatorAddress string
	daoFundAddress  string
	devFundAddress  string

	epochPeriod  time.Duration
	tickInterval time.Duration

	withdrawLockupEpochs uint64
	rewardLockupEpochs   uint64

	metricsAddress string
)

func ReadConfig(filePath string) {
	viper.SetConfigFile(filePath)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
	}

	err := initializeVariables()
	if err != nil {
		log.Fatalf("Configuration error - %v\n", err.Error())
	}
}

// This method processes the configuration parameters and keeps the processed
// values in variables for later rapid access.
func initializeVariables() error {
	var err error

	// Database stuff
	dbUri = TrailingSlashRE.ReplaceAllString(viper.GetString("service_db_uri"), "")

	// Account stuff
	treasuryAddress = strings.TrimSpace(viper.GetString("treasury_address"))
	if treasuryAddress == "" {
		return ErrorNoTreasuryAddress
	}
	forgeAddress = strings.TrimSpace(viper.GetString("forge_address"))
	if forgeAddress == "" {
		return ErrorNoForgeAddress
	}
	operatorAddress = strings.TrimSpace(viper.GetString("operator_address"))
	if operatorAddress == "" {
		return ErrorNoOperatorAddress
	}
	daoFundAddress = strings.TrimSpace(viper.GetString("dao_fund_address"))
	devFundAddress = strings.TrimSpace(viper.GetString("dev_fund_address"))

	//---------------------------------------------------------------
	// epoch period
	strValue := viper.GetString("epoch_period")
	epochPeriod, err = time.ParseDuration(strValue)
	if err != nil || epochPeriod <= 0 {
		return ErrorInvalidEpochPeriod
	}

	//---------------------------------------------------------------
	// tick interval
	strValue = viper.GetString("tick_interval")
	tickInterval, err = time.ParseDuration(strValue)
	if err != nil || tickInterval <= 0 {
		return ErrorInvalidTickInterval
	}

	//---------------------------------------------------------------
	// lockups
	withdrawLockupEpochs = viper.GetUint64("withdraw_lockup_epochs")
	rewardLockupEpochs = viper.GetUint64("reward_lockup_epochs")
	if withdrawLockupEpochs == 0 && rewardLockupEpochs == 0 {
		withdrawLockupEpochs = 6
		rewardLockupEpochs = 3
	}
	if withdrawLockupEpochs < rewardLockupEpochs || withdrawLockupEpochs > 56 {
		return ErrorInvalidLockupEpochs
	}

	//---------------------------------------------------------------
	// metrics listener
	metricsAddress = strings.TrimSpace(viper.GetString("metrics_address"))
	if metricsAddress == "" {
		metricsAddress = ":9465"
	}
	if !strings.Contains(metricsAddress, ":") {
		return ErrorInvalidMetricAddress
	}

	return nil
}

// -------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetTreasuryAddress() string {
	return treasuryAddress
}

func GetForgeAddress() string {
	return forgeAddress
}

func GetOperatorAddress() string {
	return operatorAddress
}

func GetDaoFundAddress() string {
	return daoFundAddress
}

func GetDevFundAddress() string {
	return devFundAddress
}

func GetEpochPeriod() time.Duration {
	return epochPeriod
}

func GetTickInterval() time.Duration {
	return tickInterval
}

func GetWithdrawLockupEpochs() uint64 {
	return withdrawLockupEpochs
}

func GetRewardLockupEpochs() uint64 {
	return rewardLockupEpochs
}

func GetMetricsAddress() string {
	return metricsAddress
}
