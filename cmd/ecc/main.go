// Command ecc is an operator tool for the curves in github.com/smallyu/go-ecc:
// key generation, ECDSA, ECDH, X25519/X448 and domain file checks. All
// binary values are read and written as hex.
package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

const envPrefix = "ECC"

// app carries what every subcommand shares.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "ecc",
		Short:         "Elliptic curve keys, signatures and key agreement",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("curve", "secp256r1", "catalog curve name or alias")
	flags.String("domain-file", "", "YAML domain file, overrides --curve")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("config", "", "optional config file with the same keys as the flags")
	bindFlags(a.v, flags, "curve", "domain-file", "log-level", "config")

	root.AddCommand(
		curvesCmd(a),
		keygenCmd(a),
		signCmd(a),
		verifyCmd(a),
		ecdhCmd(a),
		montgomeryCmd(a, "x25519", ecc.X25519Size, ecc.X25519, ecc.X25519Base),
		montgomeryCmd(a, "x448", ecc.X448Size, ecc.X448, ecc.X448Base),
		pointCmd(a),
		domainCmd(a),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		// Lookup never fails here; the flags were registered above.
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "read config")
		}
	}

	level, err := zapcore.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(cmd.ErrOrStderr()),
		zap.NewAtomicLevelAt(level),
	)
	a.log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// domain returns the domain selected by --domain-file or --curve.
func (a *app) domain() (*ecc.Domain, error) {
	if path := a.v.GetString("domain-file"); path != "" {
		d, err := ecc.LoadDomainFile(path, ecc.WithLogger(a.log))
		return d, errors.Wrapf(err, "domain file %s", path)
	}
	d, err := ecc.NamedDomain(a.v.GetString("curve"), ecc.WithLogger(a.log))
	return d, errors.Wrap(err, "curve")
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
