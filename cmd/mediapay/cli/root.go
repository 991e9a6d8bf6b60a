// Package cli implements the mediapay command line: node setup, key
// management, account provisioning, instruction submission and the HTTP
// server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/mediapay-go/config"
	"github.com/bitfsorg/mediapay-go/keystore"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/logging"
	"github.com/bitfsorg/mediapay-go/runtime"
	"github.com/bitfsorg/mediapay-go/signer"
)

// PasswordEnv supplies the keystore password when --password is not given.
const PasswordEnv = "MEDIAPAY_PASSWORD"

// keyPrefix marks an account argument that names a keystore key.
const keyPrefix = "key:"

type app struct {
	dataDir  string
	password string

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCommand builds the mediapay command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mediapay",
		Short: "Pay-per-minute media access ledger",
		Long: `mediapay runs the media access program over a local ledger.

Authors register media with a per-minute price, buyers purchase minutes
paid in tokens split between distributor and author, and consumption is
reported until the purchased time is exhausted.

Account arguments accept a 64-character hex identity, key:<name> for the
identity of a keystore key, or any other label, which is hashed into a
well-known identity.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.dataDir, "data-dir", "d", config.DefaultDataDir(), "Data directory for ledger, keys and config")
	root.PersistentFlags().StringVar(&a.password, "password", "", "Keystore password (default $"+PasswordEnv+")")

	root.AddCommand(
		a.initCommand(),
		a.keygenCommand(),
		a.fundCommand(),
		a.tokenCommand(),
		a.mediaCommand(),
		a.accessCommand(),
		a.showCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfigOrDefault(config.ConfigPath(a.dataDir))
	if err != nil {
		return err
	}
	cfg.DataDir = a.dataDir
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	a.logger = logger

	if a.password == "" {
		a.password = os.Getenv(PasswordEnv)
	}
	return nil
}

// openRuntime opens the ledger database and a runtime over it. The caller
// must invoke the returned close function.
func (a *app) openRuntime(reg prometheus.Registerer) (*runtime.Runtime, func(), error) {
	if err := os.MkdirAll(a.cfg.DataDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := ledger.OpenBoltStore(a.cfg.LedgerPath())
	if err != nil {
		return nil, nil, err
	}
	tokenProgram, err := a.cfg.TokenProgramID()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	rt, err := runtime.New(store,
		runtime.WithRent(a.cfg.LedgerRent()),
		runtime.WithTokenProgram(tokenProgram),
		runtime.WithLogger(a.logger),
		runtime.WithRegisterer(reg),
	)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("close ledger", zap.Error(err))
		}
	}
	return rt, closeFn, nil
}

func (a *app) loadKey(name string) (*ec.PrivateKey, error) {
	name = strings.TrimPrefix(name, keyPrefix)
	return keystore.Load(a.cfg.KeysDir(), name, a.password)
}

// resolve turns an account argument into an identity.
func (a *app) resolve(arg string) (ledger.Identity, error) {
	if arg == "" {
		return ledger.Identity{}, errors.New("empty account argument")
	}
	if name, ok := strings.CutPrefix(arg, keyPrefix); ok {
		priv, err := keystore.Load(a.cfg.KeysDir(), name, a.password)
		if err != nil {
			return ledger.Identity{}, err
		}
		return signer.IdentityOf(priv.PubKey()), nil
	}
	if len(arg) == 2*ledger.IdentitySize {
		if id, err := ledger.ParseIdentity(arg); err == nil {
			return id, nil
		}
	}
	return ledger.DeriveIdentity(arg), nil
}

// submit signs env with keys, executes it and prints the receipt. The nonce
// comes from the clock so repeated invocations are distinct messages.
func (a *app) submit(cmd *cobra.Command, rt *runtime.Runtime, env *runtime.Envelope, keys ...*ec.PrivateKey) error {
	env.Nonce = uint64(time.Now().UnixNano())
	if err := env.Sign(keys...); err != nil {
		return err
	}
	receipt, err := rt.Submit(cmd.Context(), env)
	if err != nil {
		if receipt != nil {
			return fmt.Errorf("%s failed (%s): %w", receipt.Instruction, receipt.Code, err)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s committed, %d account(s) modified\n", receipt.Instruction, len(receipt.Modified))
	return nil
}

// ensureStorage allocates a rent-exempt storage account of size bytes when
// none exists yet.
func ensureStorage(ctx context.Context, rt *runtime.Runtime, id ledger.Identity, size int) error {
	acct, err := rt.Account(id)
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		return rt.AllocateStorage(ctx, id, size)
	case err != nil:
		return err
	case len(acct.Data) != size:
		return fmt.Errorf("account %s holds %d bytes, want %d", id.Short(), len(acct.Data), size)
	default:
		return nil
	}
}
