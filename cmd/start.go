/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"based/domain"
	"based/domain/config"
	"based/domain/util"
	"based/interface/exporter"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// startCmd boots the policy daemon
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the treasury policy daemon",
	Long:  `Starts the treasury policy daemon. To stop it, run 'stop' command.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("start called.")

		defaultDependencyInject()

		exporter.Init()
		go serveMetrics(config.GetMetricsAddress())

		tickTicker := schedule(tick, config.GetTickInterval(), quit)

		signal.Ignore()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		s := <-stop
		log.Printf("Got signal '%v', stopping", s)

		tickTicker.Stop()
	},
}

func schedule(task func(), interval time.Duration, done chan bool) *time.Ticker {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {

			case <-ticker.C:
				ticker.Stop()
				task()
				ticker.Reset(interval)

			case <-done:
				return
			}
		}
	}()
	return ticker
}

// tick tries one policy tick and refreshes the metric gauges. A not-yet-due
// epoch is the normal idle case, not an error.
func tick() {
	supplyBefore := stableToken.TotalSupply()
	err := treasuryInteractor.AdvanceEpoch(config.GetOperatorAddress())
	switch err {
	case nil:
		exporter.IncTickCount()
		if stableToken.TotalSupply().Gt(supplyBefore) {
			exporter.IncExpansionCount()
		}
		log.Printf("epoch advanced to %v [circulating: %v]\n",
			treasuryInteractor.Epoch(),
			util.WadString(treasuryInteractor.CirculatingSupply(), "BASED"))
		saveCheckpoint()
	case domain.ErrorEpochNotDue:
		// nothing to do until the next epoch point
	default:
		exporter.IncErrorCount()
		log.Printf("🔴 advancing epoch - %v\n", err.Error())
	}

	refreshGauges()
}

func saveCheckpoint() {
	_, err := checkpointRepository.Upsert(policyCheckpointKey, treasuryInteractor.Checkpoint())
	if err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 saving policy checkpoint - %v\n", err.Error())
	}
}

func refreshGauges() {
	exporter.SetGauge(exporter.METRIC_EPOCH, float64(treasuryInteractor.Epoch()))
	exporter.SetGauge(exporter.METRIC_PRICE, util.WadFloat(treasuryInteractor.PreviousEpochPrice()))
	exporter.SetGauge(exporter.METRIC_CIRCULATING_SUPPLY, util.WadFloat(treasuryInteractor.CirculatingSupply()))
	exporter.SetGauge(exporter.METRIC_SEIGNIORAGE_SAVED, util.WadFloat(treasuryInteractor.SeigniorageSaved()))
	exporter.SetGauge(exporter.METRIC_TOTAL_STAKED, util.WadFloat(forgeInteractor.TotalStaked()))
}

func serveMetrics(address string) {
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(address, nil); err != nil {
		log.Printf("🔴 serving metrics on %v - %v\n", address, err.Error())
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
