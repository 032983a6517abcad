package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/app"
)

type pageFlags struct {
	userID string
	sortBy string
	sort   string
	offset int
	limit  int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.userID, "user", "", "owning user ID (required)")
	cmd.Flags().StringVar(&p.sortBy, "sort-by", "", "sort key")
	cmd.Flags().StringVar(&p.sort, "sort", "asc", "sort direction: asc|desc")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "results to skip")
	cmd.Flags().IntVar(&p.limit, "limit", aggregate.DefaultLimit, "maximum results")
}

// openEngine loads the stores read-only and builds an engine over them.
func openEngine(cmd *cobra.Command, opts *RootOptions) (*aggregate.Engine, func() error, error) {
	stores, closeFn, err := app.OpenStores(cmd.Context(), opts.cfg, opts.logger)
	if err != nil {
		return nil, nil, err
	}
	stores.SetAutoPersist(false)
	return aggregate.New(stores.Invoices, stores.Clients, aggregate.WithLogger(opts.logger)), closeFn, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewInvoicesCommand creates the invoices command.
func NewInvoicesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		page              pageFlags
		clientID, project string
		from, to          int64
		dueFrom, dueTo    int64
	)

	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List a user's invoices joined with their clients",
		Long: `List a user's invoices joined with their clients.

Sort keys: creation, date, dueDate, companyName, price.
Date bounds are epoch milliseconds; --from is inclusive, --to exclusive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page.userID == "" {
				return errors.New("--user is required")
			}
			engine, closeFn, err := openEngine(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			q := aggregate.InvoiceQuery{
				UserID:      page.userID,
				ClientID:    clientID,
				ProjectCode: project,
				SortBy:      aggregate.InvoiceSortKey(page.sortBy),
				Sort:        aggregate.Direction(page.sort),
				Offset:      page.offset,
				Limit:       page.limit,
			}
			flags := cmd.Flags()
			if flags.Changed("from") {
				q.StartDate = &from
			}
			if flags.Changed("to") {
				q.EndDate = &to
			}
			if flags.Changed("due-from") {
				q.StartDueDate = &dueFrom
			}
			if flags.Changed("due-to") {
				q.EndDueDate = &dueTo
			}

			result, err := engine.GetInvoices(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	page.register(cmd)
	cmd.Flags().StringVar(&clientID, "client", "", "only invoices of this client")
	cmd.Flags().StringVar(&project, "project", "", "only invoices with this project code")
	cmd.Flags().Int64Var(&from, "from", 0, "issue date lower bound")
	cmd.Flags().Int64Var(&to, "to", 0, "issue date upper bound")
	cmd.Flags().Int64Var(&dueFrom, "due-from", 0, "due date lower bound")
	cmd.Flags().Int64Var(&dueTo, "due-to", 0, "due date upper bound")
	return cmd
}

// NewClientsCommand creates the clients command.
func NewClientsCommand(rootOpts *RootOptions) *cobra.Command {
	var page pageFlags

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List a user's clients with billing totals",
		Long: `List a user's clients with billing totals.

Sort keys: clientName, companyName, totalBilled, invoicesCount, creation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page.userID == "" {
				return errors.New("--user is required")
			}
			engine, closeFn, err := openEngine(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := engine.GetClients(cmd.Context(), aggregate.ClientQuery{
				UserID: page.userID,
				SortBy: aggregate.ClientSortKey(page.sortBy),
				Sort:   aggregate.Direction(page.sort),
				Offset: page.offset,
				Limit:  page.limit,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	page.register(cmd)
	return cmd
}
