package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/psds-microservice/classroom-service/internal/config"
	"github.com/psds-microservice/classroom-service/internal/ecpay"
	"github.com/spf13/cobra"
)

var checkmacCmd = &cobra.Command{
	Use:   "checkmac Key=Value [Key=Value...]",
	Short: "Compute (or with --verify, check) an ECPay CheckMacValue",
	Long: `Signs the given parameters with ECPAY_HASH_KEY / ECPAY_HASH_IV (or --hash-key / --hash-iv).
With --verify the parameters must include CheckMacValue; exit status is non-zero on mismatch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckMac,
}

func init() {
	checkmacCmd.Flags().String("hash-key", "", "HashKey (default: ECPAY_HASH_KEY)")
	checkmacCmd.Flags().String("hash-iv", "", "HashIV (default: ECPAY_HASH_IV)")
	checkmacCmd.Flags().Bool("verify", false, "verify the CheckMacValue among the parameters")
}

func runCheckMac(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	hashKey, _ := cmd.Flags().GetString("hash-key")
	hashIV, _ := cmd.Flags().GetString("hash-iv")
	verify, _ := cmd.Flags().GetBool("verify")
	if hashKey == "" {
		hashKey = cfg.ECPay.HashKey
	}
	if hashIV == "" {
		hashIV = cfg.ECPay.HashIV
	}

	params, err := parseParams(args)
	if err != nil {
		return err
	}
	signer := ecpay.NewSigner(hashKey, hashIV)
	if verify {
		if !signer.Verify(params) {
			return fmt.Errorf("CheckMacValue mismatch: expected %s", signer.CheckMacValue(params))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), signer.CheckMacValue(params))
	return nil
}

func parseParams(args []string) (ecpay.Params, error) {
	params := make(ecpay.Params, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, want Key=Value", arg)
		}
		params[k] = v
	}
	return params, nil
}
