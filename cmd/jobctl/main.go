package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/justsurfingit/job-posts/internal/cache"
	"github.com/justsurfingit/job-posts/internal/client"
	"github.com/justsurfingit/job-posts/internal/models"
	"github.com/justsurfingit/job-posts/internal/render"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	var (
		apiURL  = flag.String("api", envOr("JOBPOSTS_API", client.DefaultBaseURL), "Job posts API base URL")
		timeout = flag.Duration("timeout", 10*time.Second, "Per-command timeout")
		help    = flag.Bool("help", false, "Show help message")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *help || flag.NArg() == 0 {
		printUsage()
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.New(*apiURL, &http.Client{Timeout: *timeout})
	app := &cli{api: api, cache: cache.New(api), out: os.Stdout}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	case "list":
		err = app.list(ctx)
	case "manage":
		err = app.manage(ctx)
	case "show":
		err = app.show(ctx, args)
	case "create":
		err = app.create(ctx, args)
	case "edit":
		err = app.edit(ctx, args)
	case "delete":
		err = app.delete(ctx, args)
	case "draft":
		err = app.draft(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		cancel()
		log.SetFlags(0)
		log.Fatal(err)
	}
}

type cli struct {
	api   *client.Client
	cache *cache.JobPostsCache
	out   io.Writer
}

// list shows the public openings view.
func (c *cli) list(ctx context.Context) error {
	// The view renders the error state itself.
	loadErr := c.cache.Load(ctx)
	if err := render.Openings(c.out, c.cache.Snapshot()); err != nil {
		return err
	}
	if loadErr != nil {
		return fmt.Errorf("load job posts: %w", loadErr)
	}
	return nil
}

// manage shows the admin table.
func (c *cli) manage(ctx context.Context) error {
	if err := c.cache.Load(ctx); err != nil {
		return fmt.Errorf("Failed to fetch job posts: %w", err)
	}
	return render.Table(c.out, c.cache.Snapshot().Posts)
}

func (c *cli) show(ctx context.Context, args []string) error {
	id, _, err := parseID("show", args)
	if err != nil {
		return err
	}
	post, err := c.cache.Get(ctx, id)
	if err != nil {
		return describe(err, "Failed to fetch job post")
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(post)
}

func (c *cli) create(ctx context.Context, args []string) error {
	var form formFlags
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	form.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := form.apply(models.JobPostFormData{})
	if err != nil {
		return err
	}
	if err := validateForm(data); err != nil {
		return err
	}

	post, err := c.cache.Create(ctx, data)
	state := c.cache.Snapshot()
	if err != nil {
		if state.CreateError != "" {
			return errors.New(state.CreateError)
		}
		return errors.New("Failed to create job post")
	}
	fmt.Fprintf(c.out, "Job post created successfully! (id %d)\n", post.ID)
	c.cache.ResetCreateStatus()
	return nil
}

func (c *cli) edit(ctx context.Context, args []string) error {
	id, rest, err := parseID("edit", args)
	if err != nil {
		return err
	}
	var form formFlags
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	form.register(fs)
	if err := fs.Parse(rest); err != nil {
		return err
	}

	current, err := c.cache.Get(ctx, id)
	if err != nil {
		return describe(err, "Failed to fetch job post")
	}
	data, err := form.apply(current.Fields())
	if err != nil {
		return err
	}
	if err := validateForm(data); err != nil {
		return err
	}

	if _, err := c.cache.Update(ctx, id, data); err != nil {
		return describe(err, "Failed to update job post")
	}
	fmt.Fprintln(c.out, "Job post updated successfully")
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	id, _, err := parseID("delete", args)
	if err != nil {
		return err
	}
	if err := c.cache.Delete(ctx, id); err != nil {
		return describe(err, "Failed to delete job post")
	}
	fmt.Fprintln(c.out, "Job post deleted successfully")
	if err := c.cache.Load(ctx); err != nil {
		return fmt.Errorf("Failed to fetch job posts: %w", err)
	}
	return render.Table(c.out, c.cache.Snapshot().Posts)
}

// draft turns a pasted listing into form fields. The result is printed as
// JSON so it can be reviewed before running create.
func (c *cli) draft(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("draft", flag.ExitOnError)
	file := fs.String("file", "", "read the listing from this file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		raw []byte
		err error
	)
	if *file != "" {
		raw, err = os.ReadFile(*file)
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read listing: %w", err)
	}

	fields, err := c.api.DraftJobPost(ctx, string(raw))
	if err != nil {
		return describe(err, "Failed to draft job post")
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(fields)
}

func parseID(cmd string, args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("usage: jobctl %s <id>", cmd)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, nil, fmt.Errorf("invalid job post id %q", args[0])
	}
	return id, args[1:], nil
}

func describe(err error, fallback string) error {
	if client.IsNotFound(err) {
		return fmt.Errorf("%s: job post not found", fallback)
	}
	return fmt.Errorf("%s: %w", fallback, err)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("Job posts CLI")
	fmt.Println()
	fmt.Println("Usage: jobctl [flags] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                 Show current openings")
	fmt.Println("  manage               Show all job posts as a table")
	fmt.Println("  show <id>            Print one job post as JSON")
	fmt.Println("  create [fields]      Create a job post")
	fmt.Println("  edit <id> [fields]   Change the given fields of a job post")
	fmt.Println("  delete <id>          Delete a job post")
	fmt.Println("  draft [-file path]   Extract form fields from a pasted listing")
	fmt.Println()
	fmt.Println("Fields:")
	fmt.Println("  -title -department -type -description -description-file -location -deadline")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  JOBPOSTS_API         API base URL (default " + client.DefaultBaseURL + ")")
}
