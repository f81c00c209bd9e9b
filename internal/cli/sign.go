package cli

import (
	"encoding/json"
	"time"

	"github.com/layer-3/jumper/internal/eth"
	"github.com/spf13/cobra"
)

// signedChallenge is the body of POST /v1/auth/wallet/login
type signedChallenge struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

var signFlags struct {
	key     string
	nonce   string
	domain  string
	uri     string
	chainID int
	expires time.Duration
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Build and sign a SIWE login message (development helper)",
	RunE: func(cmd *cobra.Command, args []string) error {
		challenge, err := signChallenge(signFlags.key, eth.MessageParams{
			Domain:    signFlags.domain,
			Statement: eth.DefaultStatement,
			URI:       signFlags.uri,
			ChainID:   signFlags.chainID,
			Nonce:     signFlags.nonce,
		}, signFlags.expires)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(challenge)
	},
}

func init() {
	f := signCmd.Flags()
	f.StringVar(&signFlags.key, "key", "", "hex encoded private key")
	f.StringVar(&signFlags.nonce, "nonce", "", "nonce returned by /v1/auth/wallet/connect")
	f.StringVar(&signFlags.domain, "domain", "localhost:3000", "domain requesting the sign-in")
	f.StringVar(&signFlags.uri, "uri", "http://localhost:3000", "URI of the sign-in request")
	f.IntVar(&signFlags.chainID, "chain-id", 1, "EIP-155 chain ID")
	f.DurationVar(&signFlags.expires, "expires", 0, "message lifetime, 0 for none")
	_ = signCmd.MarkFlagRequired("key")
	_ = signCmd.MarkFlagRequired("nonce")

	rootCmd.AddCommand(signCmd)
}

// signChallenge fills the address from keyHex and signs the message
func signChallenge(keyHex string, params eth.MessageParams, expires time.Duration) (*signedChallenge, error) {
	key, err := eth.ParsePrivateKey(keyHex)
	if err != nil {
		return nil, err
	}

	params.Address = eth.AddressOf(key)
	params.IssuedAt = time.Now()
	if expires > 0 {
		params.ExpirationTime = params.IssuedAt.Add(expires)
	}

	message, err := eth.BuildMessage(params)
	if err != nil {
		return nil, err
	}
	signature, err := eth.SignMessage(key, message)
	if err != nil {
		return nil, err
	}
	return &signedChallenge{Message: message, Signature: signature}, nil
}
