package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"zakatku-backend/internal/adapter/repo"
	"zakatku-backend/internal/audit"
	"zakatku-backend/internal/domain"
	"zakatku-backend/internal/infra"
	"zakatku-backend/internal/offline"
	"zakatku-backend/pkg/rupiah"
)

const usage = `Usage: agent <command> [flags]

Commands:
  capture   record a donation; queued locally when the server is unreachable
  list      show donations waiting in the local queue
  status    show connectivity and pending count
  sync      replay the local queue against the server
`

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "capture":
		err = runCapture(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "status":
		err = runStatus(os.Args[2:])
	case "sync":
		err = runSync(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		exitWithError(err)
	}
}

func runCapture(args []string) error {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	var (
		queuePath = fs.String("queue", defaultQueuePath(), "path of the local queue file")
		donorName = fs.String("donatur", "", "donor name")
		category  = fs.String("jenis", "", "zakat category (zakat_fitrah, zakat_maal, infaq, sedekah)")
		amount    = fs.Int64("nominal", 0, "amount in whole rupiah")
		method    = fs.String("metode", "tunai", "payment method (tunai, transfer)")
		collector = fs.String("petugas", "", "collector user ID")
		donorID   = fs.String("donatur-id", "", "registered donor ID (optional)")
		email     = fs.String("email", "", "collector email, recorded on the audit trail")
	)
	_ = fs.Parse(args)

	if strings.TrimSpace(*donorName) == "" {
		return errors.New("-donatur is required")
	}
	switch domain.ZakatCategory(*category) {
	case domain.ZakatFitrah, domain.ZakatMaal, domain.Infaq, domain.Sedekah:
	default:
		return fmt.Errorf("unsupported category %q", *category)
	}
	switch domain.PaymentMethod(*method) {
	case domain.PaymentCash, domain.PaymentTransfer:
	default:
		return fmt.Errorf("unsupported payment method %q", *method)
	}
	if *amount <= 0 {
		return errors.New("-nominal must be positive")
	}
	if strings.TrimSpace(*collector) == "" {
		return errors.New("-petugas is required")
	}

	draft := domain.DonationDraft{
		DonorName:   strings.TrimSpace(*donorName),
		Category:    domain.ZakatCategory(*category),
		Amount:      *amount,
		Method:      domain.PaymentMethod(*method),
		CollectorID: strings.TrimSpace(*collector),
		OccurredAt:  time.Now().UTC(),
	}
	if id := strings.TrimSpace(*donorID); id != "" {
		draft.DonorID = &id
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "agent").Logger()

	// Try the online path first. Any connection failure falls back to the
	// local queue; the donation is never dropped.
	pool, connErr := connect(context.Background())
	if connErr == nil {
		defer pool.Close()
		donations := repo.NewDonationRepository(pool)
		trail := audit.NewRecorder(repo.NewAuditLogRepository(pool))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d := &domain.Donation{
			DonorName:   draft.DonorName,
			Category:    draft.Category,
			Amount:      draft.Amount,
			Method:      draft.Method,
			CollectorID: draft.CollectorID,
			DonorID:     draft.DonorID,
			OccurredAt:  draft.OccurredAt,
		}
		if err := donations.Create(ctx, d); err == nil {
			actor := domain.Actor{UserID: draft.CollectorID, Email: strings.TrimSpace(*email)}
			if err := trail.Record(ctx, actor, domain.AuditInsert, "donasi", d.ID, nil, d); err != nil {
				logger.Warn().Err(err).Str("donation_id", d.ID).Msg("audit entry not written")
			}
			fmt.Printf("saved online: %s (%s)\n", d.ID, rupiah.Format(d.Amount))
			return nil
		}
		logger.Warn().Msg("online insert failed, queueing locally")
	}

	queue, closeKV, err := openQueue(*queuePath)
	if err != nil {
		return err
	}
	defer closeKV()

	pending, err := queue.Enqueue(draft)
	if err != nil {
		return err
	}
	fmt.Printf("saved offline: %s (%s), %d pending\n", draft.DonorName, rupiah.Format(draft.Amount), pending)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	queuePath := fs.String("queue", defaultQueuePath(), "path of the local queue file")
	_ = fs.Parse(args)

	queue, closeKV, err := openQueue(*queuePath)
	if err != nil {
		return err
	}
	defer closeKV()

	items, err := queue.List()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("queue empty")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s  %s  %s  %s  saved %s\n",
			item.LocalID,
			item.Draft.DonorName,
			item.Draft.Category,
			rupiah.Format(item.Draft.Amount),
			item.SavedAt.Format(time.RFC3339))
	}
	fmt.Printf("%d pending\n", len(items))
	return nil
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	queuePath := fs.String("queue", defaultQueuePath(), "path of the local queue file")
	_ = fs.Parse(args)

	queue, closeKV, err := openQueue(*queuePath)
	if err != nil {
		return err
	}
	defer closeKV()

	pending, err := queue.Count()
	if err != nil {
		return err
	}

	probe := offline.ProbeFunc(func(ctx context.Context) bool {
		pool, err := connect(ctx)
		if err != nil {
			return false
		}
		pool.Close()
		return true
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st := offline.Status(probe.Online(ctx), pending)
	fmt.Printf("state: %s, pending: %d\n", st.State, st.Pending)
	return nil
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	var (
		queuePath = fs.String("queue", defaultQueuePath(), "path of the local queue file")
		collector = fs.String("petugas", "", "collector user ID, recorded on the audit trail")
		email     = fs.String("email", "", "collector email, recorded on the audit trail")
	)
	_ = fs.Parse(args)

	if strings.TrimSpace(*collector) == "" {
		return errors.New("-petugas is required")
	}

	queue, closeKV, err := openQueue(*queuePath)
	if err != nil {
		return err
	}
	defer closeKV()

	pool, err := connect(context.Background())
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "agent").Logger()
	donations := repo.NewDonationRepository(pool)
	trail := audit.NewRecorder(repo.NewAuditLogRepository(pool))
	sync := offline.NewSynchronizer(queue, donations, trail, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	actor := domain.Actor{UserID: strings.TrimSpace(*collector), Email: strings.TrimSpace(*email)}
	res, err := sync.Sync(ctx, actor)
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func defaultQueuePath() string {
	if p := strings.TrimSpace(os.Getenv("OFFLINE_QUEUE_PATH")); p != "" {
		return p
	}
	return "offline.db"
}

func openQueue(path string) (*offline.Queue, func(), error) {
	kv, err := offline.OpenBolt(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open queue %s: %w", path, err)
	}
	return offline.NewQueue(kv), func() { _ = kv.Close() }, nil
}

// connect opens a pool and pings it within a short deadline. The deadline is
// what turns a dead uplink into a prompt offline verdict instead of a hang.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
