package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/mediapay-go/config"
	"github.com/bitfsorg/mediapay-go/keystore"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/runtime"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/state"
)

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ConfigPath(a.cfg.DataDir)
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "config already exists at %s\n", path)
				return nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.SaveConfig(path, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func (a *app) keygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <name>",
		Short: "Generate an encrypted signing key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.password == "" {
				return fmt.Errorf("a password is required (--password or $%s)", PasswordEnv)
			}
			priv, err := keystore.Generate(a.cfg.KeysDir(), args[0], a.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], signer.IdentityOf(priv.PubKey()))
			return nil
		},
	}
}

func (a *app) fundCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <account> <lamports>",
		Short: "Credit native balance to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			rt, closeFn, err := a.openRuntime(nil)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := rt.Fund(cmd.Context(), id, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "funded %s with %d\n", id, amount)
			return nil
		},
	}
}

func (a *app) tokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage token accounts",
	}

	var mint, owner string
	create := &cobra.Command{
		Use:   "create-account <account>",
		Short: "Create a token account for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.resolveAll(args[0], mint, owner)
			if err != nil {
				return err
			}
			rt, closeFn, err := a.openRuntime(nil)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := rt.CreateTokenAccount(cmd.Context(), ids[0], ids[1], ids[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token account %s\n", ids[0])
			return nil
		},
	}
	create.Flags().StringVar(&mint, "mint", "", "Token mint the account holds")
	create.Flags().StringVar(&owner, "owner", "", "Identity allowed to spend from the account")
	_ = create.MarkFlagRequired("mint")
	_ = create.MarkFlagRequired("owner")

	mintCmd := &cobra.Command{
		Use:   "mint <account> <amount>",
		Short: "Mint new tokens into a token account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			rt, closeFn, err := a.openRuntime(nil)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := rt.MintTokens(cmd.Context(), id, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "minted %d to %s\n", amount, id)
			return nil
		},
	}

	tokenCmd.AddCommand(create, mintCmd)
	return tokenCmd
}

func (a *app) mediaCommand() *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Register media",
	}

	var author, contentTokenAccount, contentToken string
	var price, fee uint64
	create := &cobra.Command{
		Use:   "create <media-account>",
		Short: "Register per-minute pricing for a media account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authorKey, err := a.loadKey(author)
			if err != nil {
				return err
			}
			ids, err := a.resolveAll(args[0], contentTokenAccount)
			if err != nil {
				return err
			}
			rt, closeFn, err := a.openRuntime(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			program := rt.TokenProgram()
			if contentToken != "" {
				if program, err = a.resolve(contentToken); err != nil {
					return err
				}
			}
			if err := ensureStorage(cmd.Context(), rt, ids[0], state.MediaSize); err != nil {
				return err
			}
			env, err := runtime.NewCreateMedia(runtime.CreateMediaParams{
				Author:              signer.IdentityOf(authorKey.PubKey()),
				ContentTokenAccount: ids[1],
				Media:               ids[0],
				ContentTokenProgram: program,
				PricePerMinute:      price,
				DistributorFee:      fee,
			})
			if err != nil {
				return err
			}
			return a.submit(cmd, rt, env, authorKey)
		},
	}
	create.Flags().StringVar(&author, "author", "", "Keystore key of the author (signs)")
	create.Flags().StringVar(&contentTokenAccount, "content-token-account", "", "Token account holding the content token")
	create.Flags().StringVar(&contentToken, "content-token", "", "Content token registration (default: the token program)")
	create.Flags().Uint64Var(&price, "price", 0, "Price per minute in token base units")
	create.Flags().Uint64Var(&fee, "fee", 0, "Distributor fee percentage")
	_ = create.MarkFlagRequired("author")
	_ = create.MarkFlagRequired("content-token-account")

	mediaCmd.AddCommand(create)
	return mediaCmd
}

func (a *app) accessCommand() *cobra.Command {
	accessCmd := &cobra.Command{
		Use:   "access",
		Short: "Purchase and report access time",
	}

	var (
		payer, buyer, media              string
		authorToken, distToken, buyerTok string
		minutes                          uint64
	)
	purchase := &cobra.Command{
		Use:   "purchase <access-account>",
		Short: "Buy minutes of access to a media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payerKey, err := a.loadKey(payer)
			if err != nil {
				return err
			}
			buyerKey, err := a.loadKey(buyer)
			if err != nil {
				return err
			}
			ids, err := a.resolveAll(args[0], media, authorToken, distToken, buyerTok)
			if err != nil {
				return err
			}
			rt, closeFn, err := a.openRuntime(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := ensureStorage(cmd.Context(), rt, ids[0], state.AccessTimeSize); err != nil {
				return err
			}
			env, err := runtime.NewPurchaseAccessTime(runtime.PurchaseParams{
				Payer:            signer.IdentityOf(payerKey.PubKey()),
				Buyer:            signer.IdentityOf(buyerKey.PubKey()),
				AccessTime:       ids[0],
				Media:            ids[1],
				AuthorToken:      ids[2],
				DistributorToken: ids[3],
				BuyerToken:       ids[4],
				TokenProgram:     rt.TokenProgram(),
				Minutes:          minutes,
			})
			if err != nil {
				return err
			}
			return a.submit(cmd, rt, env, payerKey, buyerKey)
		},
	}
	purchase.Flags().StringVar(&payer, "payer", "", "Keystore key of the payer (signs)")
	purchase.Flags().StringVar(&buyer, "buyer", "", "Keystore key of the buyer (signs)")
	purchase.Flags().StringVar(&media, "media", "", "Media account")
	purchase.Flags().StringVar(&authorToken, "author-token", "", "Author's token account")
	purchase.Flags().StringVar(&distToken, "distributor-token", "", "Distributor's token account")
	purchase.Flags().StringVar(&buyerTok, "buyer-token", "", "Buyer's token account")
	purchase.Flags().Uint64Var(&minutes, "minutes", 0, "Minutes to purchase")
	for _, f := range []string{"payer", "buyer", "media", "author-token", "distributor-token", "buyer-token"} {
		_ = purchase.MarkFlagRequired(f)
	}

	var updatePayer string
	var spent uint64
	update := &cobra.Command{
		Use:   "update <access-account>",
		Short: "Report cumulative minutes consumed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payerKey, err := a.loadKey(updatePayer)
			if err != nil {
				return err
			}
			access, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			rt, closeFn, err := a.openRuntime(nil)
			if err != nil {
				return err
			}
			defer closeFn()

			env, err := runtime.NewUpdateAccessTime(signer.IdentityOf(payerKey.PubKey()), access, spent)
			if err != nil {
				return err
			}
			return a.submit(cmd, rt, env, payerKey)
		},
	}
	update.Flags().StringVar(&updatePayer, "payer", "", "Keystore key of the payer (signs, receives the deposit on close)")
	update.Flags().Uint64Var(&spent, "minutes", 0, "Cumulative minutes consumed")
	_ = update.MarkFlagRequired("payer")

	accessCmd.AddCommand(purchase, update)
	return accessCmd
}

func (a *app) resolveAll(args ...string) ([]ledger.Identity, error) {
	ids := make([]ledger.Identity, len(args))
	for i, arg := range args {
		id, err := a.resolve(arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}
