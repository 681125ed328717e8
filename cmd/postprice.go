/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"based/interface/repository"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/spf13/cobra"
)

// postPriceCmd posts one oracle observation for the daemon to consult
var postPriceCmd = &cobra.Command{
	Use:   "post-price <price> <twap>",
	Short: "Posts one oracle observation",
	Long: `Posts one oracle observation: the spot price and the time-weighted
average price, both as wad-scaled (1e18) decimal integers.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("post-price called.")

		price, twap := args[0], args[1]
		for _, value := range args {
			if _, ok := new(big.Int).SetString(value, 10); !ok {
				log.Fatalf("Not a wad-scaled decimal integer - %v\n", value)
			}
		}

		prices := repository.NewPriceRepository(openDbPool())
		if err := prices.Insert(price, twap, time.Now()); err != nil {
			log.Fatalf("Unable to post the observation - %v\n", err.Error())
		}
		log.Printf("posted price %v, twap %v\n", price, twap)
	},
}

func init() {
	rootCmd.AddCommand(postPriceCmd)
}
