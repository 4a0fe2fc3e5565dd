package cli

import (
	"context"
	"fmt"
)

// dashboard prints the aggregate view: totals plus the recent activity feed.
func (a *App) dashboard(ctx context.Context) {
	users, err := a.users.Totals(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	cars, err := a.cars.Totals(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	leases, err := a.leases.Active(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}

	fmt.Fprintf(a.out, "Users: %d   Cars: %d   Active leases: %d\n",
		users.Users, cars.Cars, len(leases.Leases))

	a.listActivity(ctx)
}

func (a *App) listLeases(ctx context.Context) {
	list, err := a.leases.Active(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if len(list.Leases) == 0 {
		fmt.Fprintln(a.out, "(no active leases)")
		return
	}
	for _, l := range list.Leases {
		fmt.Fprintf(a.out, "%s  user=%s car=%s  %s - %s\n",
			l.ID, l.UserID, l.CarID,
			l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"))
	}
}

func (a *App) listActivity(ctx context.Context) {
	feed, err := a.leases.RecentActivity(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	for _, item := range feed.Activity {
		fmt.Fprintf(a.out, "%s  %s\n", item.CreatedAt.Format("2006-01-02 15:04"), item.Message)
	}
}

func (a *App) listTransactions(ctx context.Context) {
	list, err := a.leases.Transactions(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if len(list.Transactions) == 0 {
		fmt.Fprintln(a.out, "(no transactions)")
		return
	}
	for _, tx := range list.Transactions {
		fmt.Fprintf(a.out, "%s  user=%s  %10.2f  %s\n",
			tx.ID, tx.UserID, tx.Amount, tx.CreatedAt.Format("2006-01-02 15:04"))
	}
}
