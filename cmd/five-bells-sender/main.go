// Command five-bells-sender executes a conditional payment across ledgers
// from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	adapters "github.com/MatthewPhinney/five-bells-sender/adapters/rest"
	"github.com/MatthewPhinney/five-bells-sender/clients/rest"
	"github.com/MatthewPhinney/five-bells-sender/domain"
	"github.com/MatthewPhinney/five-bells-sender/payment"
)

// fileParams is the YAML shape of a --params file. Flags override it.
type fileParams struct {
	SourceAccount      string `yaml:"source_account"`
	DestinationAccount string `yaml:"destination_account"`
	SourceAmount       string `yaml:"source_amount"`
	DestinationAmount  string `yaml:"destination_amount"`
	ReceiptCondition   string `yaml:"receipt_condition"`
	Notary             string `yaml:"notary"`
	NotaryPublicKey    string `yaml:"notary_public_key"`
	CaseID             string `yaml:"case_id"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	CertFile           string `yaml:"cert"`
	KeyFile            string `yaml:"key"`
	CAFile             string `yaml:"ca"`
}

func main() {
	var (
		paramsFile string
		timeout    time.Duration
		fp         fileParams
	)

	cmd := &cobra.Command{
		Use:          "five-bells-sender",
		Short:        "Send a conditional payment across ledgers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if paramsFile != "" {
				loaded, err := loadParamsFile(paramsFile)
				if err != nil {
					return err
				}
				merge(cmd, loaded, &fp)
			}

			params, err := buildParams(&fp)
			if err != nil {
				return err
			}

			client := rest.NewClient(rest.Config{
				Timeout:   timeout,
				UserAgent: "five-bells-sender",
			})
			executor := payment.NewExecutor(
				adapters.NewGateway(client),
				adapters.NewQuoter(client),
				adapters.NewNotaryClient(client),
			)

			transfer, err := executor.SendPayment(cmd.Context(), params)
			if err != nil {
				return err
			}
			if transfer == nil {
				fmt.Fprintln(os.Stderr, "no payment path found")
				os.Exit(2)
			}

			out, err := json.MarshalIndent(transfer, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&paramsFile, "params", "", "YAML file with payment parameters")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout")
	flags.StringVar(&fp.SourceAccount, "source-account", "", "source account URI")
	flags.StringVar(&fp.DestinationAccount, "destination-account", "", "destination account URI")
	flags.StringVar(&fp.SourceAmount, "source-amount", "", "fixed source amount")
	flags.StringVar(&fp.DestinationAmount, "destination-amount", "", "fixed destination amount")
	flags.StringVar(&fp.ReceiptCondition, "receipt-condition", "", "receipt condition URI")
	flags.StringVar(&fp.Notary, "notary", "", "notary URI (enables atomic mode)")
	flags.StringVar(&fp.NotaryPublicKey, "notary-public-key", "", "notary public key (required in atomic mode)")
	flags.StringVar(&fp.CaseID, "case-id", "", "reuse an existing notary case id")
	flags.StringVar(&fp.Username, "username", "", "basic auth username (defaults to the source account name)")
	flags.StringVar(&fp.Password, "password", "", "basic auth password")
	flags.StringVar(&fp.CertFile, "cert", "", "client certificate PEM file")
	flags.StringVar(&fp.KeyFile, "key", "", "client key PEM file")
	flags.StringVar(&fp.CAFile, "ca", "", "custom CA bundle PEM file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadParamsFile(path string) (*fileParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}
	var fp fileParams
	if err := yaml.Unmarshal(raw, &fp); err != nil {
		return nil, fmt.Errorf("failed to parse params file: %w", err)
	}
	return &fp, nil
}

// merge applies file values underneath explicitly set flags.
func merge(cmd *cobra.Command, file, flags *fileParams) {
	set := func(flag string, dst *string, fromFile string) {
		if !cmd.Flags().Changed(flag) && fromFile != "" {
			*dst = fromFile
		}
	}
	set("source-account", &flags.SourceAccount, file.SourceAccount)
	set("destination-account", &flags.DestinationAccount, file.DestinationAccount)
	set("source-amount", &flags.SourceAmount, file.SourceAmount)
	set("destination-amount", &flags.DestinationAmount, file.DestinationAmount)
	set("receipt-condition", &flags.ReceiptCondition, file.ReceiptCondition)
	set("notary", &flags.Notary, file.Notary)
	set("notary-public-key", &flags.NotaryPublicKey, file.NotaryPublicKey)
	set("case-id", &flags.CaseID, file.CaseID)
	set("username", &flags.Username, file.Username)
	set("password", &flags.Password, file.Password)
	set("cert", &flags.CertFile, file.CertFile)
	set("key", &flags.KeyFile, file.KeyFile)
	set("ca", &flags.CAFile, file.CAFile)
}

func buildParams(fp *fileParams) (*payment.Params, error) {
	if fp.SourceAmount != "" && fp.DestinationAmount != "" {
		return nil, fmt.Errorf("set exactly one of --source-amount and --destination-amount")
	}

	var amount payment.Amount
	switch {
	case fp.SourceAmount != "":
		v, err := decimal.NewFromString(fp.SourceAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid source amount: %w", err)
		}
		amount = payment.FixedSource(v)
	case fp.DestinationAmount != "":
		v, err := decimal.NewFromString(fp.DestinationAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid destination amount: %w", err)
		}
		amount = payment.FixedDestination(v)
	}

	cred, err := buildCredential(fp)
	if err != nil {
		return nil, err
	}

	return &payment.Params{
		SourceAccount:      fp.SourceAccount,
		DestinationAccount: fp.DestinationAccount,
		Amount:             amount,
		ReceiptCondition:   domain.Condition(fp.ReceiptCondition),
		Notary:             fp.Notary,
		NotaryPublicKey:    fp.NotaryPublicKey,
		CaseID:             fp.CaseID,
		Credential:         cred,
	}, nil
}

func buildCredential(fp *fileParams) (domain.Credential, error) {
	var ca []byte
	if fp.CAFile != "" {
		raw, err := os.ReadFile(fp.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		ca = raw
	}

	useCert := fp.CertFile != "" || fp.KeyFile != ""
	useBasic := fp.Password != ""
	if useCert && useBasic {
		return nil, fmt.Errorf("use either basic auth or a client certificate, not both")
	}

	if useCert {
		cert, err := os.ReadFile(fp.CertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read cert file: %w", err)
		}
		key, err := os.ReadFile(fp.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		return domain.CertCredential{Cert: cert, Key: key, CA: ca}, nil
	}
	if useBasic {
		return domain.BasicCredential{Username: fp.Username, Password: fp.Password, CA: ca}, nil
	}
	return nil, nil
}
