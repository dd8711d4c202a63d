package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	return b, errors.Wrapf(err, "%s is not valid hex", name)
}

// readMessage returns the file named by --in ("-" for stdin), or the
// arguments joined by spaces.
func readMessage(cmd *cobra.Command, args []string) ([]byte, error) {
	in, _ := cmd.Flags().GetString("in")
	switch in {
	case "":
		if len(args) == 0 {
			return nil, errors.New("no message: pass it as arguments or use --in")
		}
		return []byte(strings.Join(args, " ")), nil
	case "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		return b, errors.Wrap(err, "read stdin")
	default:
		b, err := os.ReadFile(in)
		return b, errors.Wrap(err, "read message")
	}
}

// digestOf hashes the message with the domain's hash, unless --digest says
// the input already is a hex digest.
func digestOf(cmd *cobra.Command, d *ecc.Domain, args []string) ([]byte, error) {
	msg, err := readMessage(cmd, args)
	if err != nil {
		return nil, err
	}
	if raw, _ := cmd.Flags().GetBool("digest"); raw {
		return decodeHex("digest", string(msg))
	}
	return d.Digest(msg), nil
}

func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().String("in", "", "read the message from a file, - for stdin")
	cmd.Flags().Bool("digest", false, "the message is a hex digest, do not hash it")
}

func curvesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "List the curve catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFIELD\tORDER BITS\tCOFACTOR\tOID")
			for _, name := range ecc.Names() {
				d, err := ecc.NamedDomain(name, ecc.WithLogger(a.log))
				if err != nil {
					return err
				}
				p := d.Params()
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", name, d.Kind(), d.Order().BitLen(), p.H, p.OID)
			}
			return w.Flush()
		},
	}
}

func keygenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.domain()
			if err != nil {
				return err
			}
			priv, err := ecc.GenerateKey(rand.Reader, d)
			if err != nil {
				return err
			}
			compressed, _ := cmd.Flags().GetBool("compressed")
			a.log.Debug("generated key", zap.String("curve", d.Name()))
			fmt.Fprintf(cmd.OutOrStdout(), "private: %x\npublic:  %x\n", priv.Bytes(), priv.Public().Bytes(compressed))
			return nil
		},
	}
	cmd.Flags().Bool("compressed", true, "print the compressed public key")
	return cmd
}

func signCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign [message...]",
		Short: "Sign a message with ECDSA and print the DER signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.domain()
			if err != nil {
				return err
			}
			keyHex, _ := cmd.Flags().GetString("key")
			raw, err := decodeHex("key", keyHex)
			if err != nil {
				return err
			}
			priv, err := ecc.ParsePrivateKey(d, raw)
			if err != nil {
				return err
			}
			digest, err := digestOf(cmd, d, args)
			if err != nil {
				return err
			}
			sig, err := ecc.SignASN1(rand.Reader, priv, digest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", sig)
			return nil
		},
	}
	cmd.Flags().String("key", "", "private key")
	_ = cmd.MarkFlagRequired("key")
	addMessageFlags(cmd)
	return cmd
}

func verifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [message...]",
		Short: "Verify a DER ECDSA signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.domain()
			if err != nil {
				return err
			}
			pubHex, _ := cmd.Flags().GetString("pub")
			sigHex, _ := cmd.Flags().GetString("sig")
			rawPub, err := decodeHex("pub", pubHex)
			if err != nil {
				return err
			}
			sig, err := decodeHex("sig", sigHex)
			if err != nil {
				return err
			}
			pub, err := ecc.ParsePublicKey(d, rawPub)
			if err != nil {
				return err
			}
			digest, err := digestOf(cmd, d, args)
			if err != nil {
				return err
			}
			if !ecc.VerifyASN1(pub, digest, sig) {
				a.log.Info("signature rejected", zap.String("curve", d.Name()))
				return errors.New("signature is invalid")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signature is valid")
			return nil
		},
	}
	cmd.Flags().String("pub", "", "SEC1 public key")
	cmd.Flags().String("sig", "", "DER signature")
	_ = cmd.MarkFlagRequired("pub")
	_ = cmd.MarkFlagRequired("sig")
	addMessageFlags(cmd)
	return cmd
}

func ecdhCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecdh",
		Short: "Derive an ECDH shared secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.domain()
			if err != nil {
				return err
			}
			keyHex, _ := cmd.Flags().GetString("key")
			peerHex, _ := cmd.Flags().GetString("peer")
			rawKey, err := decodeHex("key", keyHex)
			if err != nil {
				return err
			}
			rawPeer, err := decodeHex("peer", peerHex)
			if err != nil {
				return err
			}
			priv, err := ecc.ParsePrivateKey(d, rawKey)
			if err != nil {
				return err
			}
			peer, err := ecc.ParsePublicKey(d, rawPeer)
			if err != nil {
				return err
			}
			secret, err := ecc.ECDH(priv, peer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", secret)
			return nil
		},
	}
	cmd.Flags().String("key", "", "private key")
	cmd.Flags().String("peer", "", "peer SEC1 public key")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("peer")
	return cmd
}

// montgomeryCmd builds the x25519 and x448 commands. Without --key a
// fresh scalar is drawn; without --peer the public key is printed.
func montgomeryCmd(a *app, name string, size int, fn func(k, u []byte) ([]byte, error), base func(k []byte) ([]byte, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Run %s key generation or agreement", strings.ToUpper(name)),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyHex, _ := cmd.Flags().GetString("key")
			peerHex, _ := cmd.Flags().GetString("peer")
			out := cmd.OutOrStdout()

			k := make([]byte, size)
			if keyHex == "" {
				if _, err := rand.Read(k); err != nil {
					return errors.Wrap(err, "read random scalar")
				}
				fmt.Fprintf(out, "private: %x\n", k)
			} else {
				var err error
				if k, err = decodeHex("key", keyHex); err != nil {
					return err
				}
			}

			if peerHex == "" {
				pub, err := base(k)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "public:  %x\n", pub)
				return nil
			}
			u, err := decodeHex("peer", peerHex)
			if err != nil {
				return err
			}
			shared, err := fn(k, u)
			if err != nil {
				a.log.Warn("key agreement failed", zap.String("function", name), zap.Error(err))
				return err
			}
			fmt.Fprintf(out, "shared:  %x\n", shared)
			return nil
		},
	}
	cmd.Flags().String("key", "", "private scalar, generated when empty")
	cmd.Flags().String("peer", "", "peer public u-coordinate")
	return cmd
}

func pointCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "point <sec1-hex>",
		Short: "Decode a SEC1 point and print its coordinates and encodings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.domain()
			if err != nil {
				return err
			}
			raw, err := decodeHex("point", args[0])
			if err != nil {
				return err
			}
			p, err := d.Decode(raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if p.Infinity {
				fmt.Fprintln(out, "point at infinity")
				return nil
			}
			compressed, err := d.Encode(p, true)
			if err != nil {
				return err
			}
			uncompressed, err := d.Encode(p, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "curve:        %s\nx:            %x\ny:            %x\ncompressed:   %x\nuncompressed: %x\n",
				d.Name(), p.X, p.Y, compressed, uncompressed)
			return nil
		},
	}
}

func domainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Check or export domain parameters",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a YAML domain file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ecc.LoadDomainFile(args[0], ecc.WithLogger(a.log))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s field, %d-bit order, cofactor %d\n",
				d.Name(), d.Kind(), d.Order().BitLen(), d.Params().H)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the selected curve as a YAML domain file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.domain()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(ecc.DomainFileOf(d.Params())); err != nil {
				return errors.Wrap(err, "encode domain")
			}
			return enc.Close()
		},
	})
	return cmd
}
