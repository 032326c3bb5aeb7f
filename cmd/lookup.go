package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/UnknownOlympus/cartograph/internal/config"
	"github.com/UnknownOlympus/cartograph/internal/geocoding"
	"github.com/UnknownOlympus/cartograph/internal/models"
	"github.com/spf13/cobra"
)

const defaultMatchLimit = 5

var (
	lookupLimit  int
	reverseLimit int
	reverseLat   float64
	reverseLon   float64
)

// cliProvider builds the provider of the one-shot commands, logging to logOut.
var cliProvider = providerFromConfig

var lookupCmd = &cobra.Command{
	Use:   "lookup <address>",
	Short: "Geocode a single address",
	Long:  `Resolve one address with the configured provider and print the matches as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := cliProvider(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		return lookup(cmd.Context(), cmd.OutOrStdout(), provider, geocoding.GeocodeQuery{Text: args[0], Limit: lookupLimit})
	},
}

// Coordinates are flag values rather than arguments: a negative positional
// value would be parsed as a shorthand flag.
var reverseCmd = &cobra.Command{
	Use:     "reverse --lat <latitude> --lon <longitude>",
	Short:   "Reverse geocode a coordinate pair",
	Example: "  atlas reverse --lat 39.78 --lon -89.65",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		query, err := newReverseQuery(reverseLat, reverseLon, reverseLimit)
		if err != nil {
			return err
		}

		provider, err := cliProvider(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		return reverse(cmd.Context(), cmd.OutOrStdout(), provider, query)
	},
}

func init() {
	lookupCmd.Flags().IntVarP(&lookupLimit, "limit", "l", defaultMatchLimit, "maximum number of matches, 0 for all")

	reverseCmd.Flags().IntVarP(&reverseLimit, "limit", "l", defaultMatchLimit, "maximum number of matches, 0 for all")
	reverseCmd.Flags().Float64Var(&reverseLat, "lat", 0, "latitude in decimal degrees")
	reverseCmd.Flags().Float64Var(&reverseLon, "lon", 0, "longitude in decimal degrees")
	_ = reverseCmd.MarkFlagRequired("lat")
	_ = reverseCmd.MarkFlagRequired("lon")
}

func providerFromConfig(logOut io.Writer) (geocoding.Provider, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return newProvider(cfg, setupLogger(logOut, cfg.Env))
}

func newReverseQuery(lat, lon float64, limit int) (geocoding.ReverseQuery, error) {
	if lat < -90 || lat > 90 {
		return geocoding.ReverseQuery{}, fmt.Errorf("invalid latitude %v: must be within [-90, 90]", lat)
	}

	if lon < -180 || lon > 180 {
		return geocoding.ReverseQuery{}, fmt.Errorf("invalid longitude %v: must be within [-180, 180]", lon)
	}

	return geocoding.ReverseQuery{
		Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
		Limit:       limit,
	}, nil
}

func lookup(ctx context.Context, out io.Writer, provider geocoding.Provider, query geocoding.GeocodeQuery) error {
	addresses, err := provider.Geocode(ctx, query)
	if err != nil {
		return err
	}

	return printAddresses(out, addresses)
}

func reverse(ctx context.Context, out io.Writer, provider geocoding.Provider, query geocoding.ReverseQuery) error {
	addresses, err := provider.ReverseGeocode(ctx, query)
	if err != nil {
		return err
	}

	return printAddresses(out, addresses)
}

func printAddresses(out io.Writer, addresses []models.Address) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(addresses)
}
