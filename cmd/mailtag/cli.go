package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/message"
	"github.com/hpungsan/mailtag/internal/ops"
	"github.com/hpungsan/mailtag/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "mailtag",
		Usage:   "Customer-isolated email tagging",
		Version: Version,
		Commands: []*cli.Command{
			classifyCmd(env),
			sampleCmd(env),
			emailsCmd(env),
			customersCmd(env),
			tagsCmd(env),
			patternsCmd(env),
			antiPatternsCmd(env),
			metricsCmd(env),
			webCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// formatFlag selects the output encoding. Each command gets its own instance.
func formatFlag() cli.Flag {
	return &cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|yaml"}
}

// classifyCmd creates the classify command.
func classifyCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Classify an email (flags, --eml file, or a raw message piped via stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "customer", Aliases: []string{"c"}, Usage: "Customer ID"},
			&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Usage: "Email subject"},
			&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Email body"},
			&cli.StringFlag{Name: "eml", Usage: "Path to a raw RFC 5322 message"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated allowed tags (narrows the customer's tags)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Scoring mode: cascade|highest (default from config)"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			input := ops.ClassifyInput{
				CustomerID: c.String("customer"),
				Subject:    c.String("subject"),
				Body:       c.String("body"),
				Tags:       parseTags(c.String("tags")),
				Mode:       c.String("mode"),
			}

			msg, err := readMessage(c)
			if err != nil {
				return outputError(err)
			}
			if msg != nil {
				// Explicit flags win over the parsed message.
				if input.Subject == "" {
					input.Subject = msg.Subject
				}
				if input.Body == "" {
					input.Body = msg.Body
				}
			}

			out, err := ops.Classify(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return output(c, out)
		},
	}
}

// sampleCmd creates the sample command.
func sampleCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Pick a random sample email of a customer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "customer", Aliases: []string{"c"}, Required: true, Usage: "Customer ID"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			out, err := ops.Sample(c.Context, env, c.String("customer"))
			if err != nil {
				return outputError(err)
			}
			return output(c, out)
		},
	}
}

// emailsCmd creates the emails command.
func emailsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "emails",
		Usage:     "List sample emails, or get one by ID",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "customer", Aliases: []string{"c"}, Usage: "Filter by customer ID"},
			&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			// Check for positional ID argument
			if c.NArg() > 0 {
				email, err := ops.GetEmail(c.Context, env, c.Args().First())
				if err != nil {
					return outputError(err)
				}
				return output(c, email)
			}

			out, err := ops.ListEmails(c.Context, env, ops.ListEmailsInput{
				CustomerID: c.String("customer"),
				Tag:        c.String("tag"),
				Limit:      c.Int("limit"),
				Offset:     c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return output(c, out)
		},
	}
}

// customersCmd creates the customers command.
func customersCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "customers",
		Usage: "List customers and their allowed tags",
		Flags: []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			return output(c, ops.Customers(env))
		},
	}
}

// tagsCmd creates the tags command.
func tagsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "tags",
		Usage:     "Show the tags a customer's emails may receive",
		ArgsUsage: "[customer_id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "customer", Aliases: []string{"c"}, Usage: "Customer ID"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			customerID := c.String("customer")
			if c.NArg() > 0 {
				customerID = c.Args().First()
			}
			out, err := ops.TagsFor(env, customerID)
			if err != nil {
				return outputError(err)
			}
			return output(c, out)
		},
	}
}

// patternsCmd creates the patterns command.
func patternsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "patterns",
		Usage: "Show the reference keyword patterns per tag",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tag", Usage: "Only this tag"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			out, err := ops.Patterns(env, c.String("tag"))
			if err != nil {
				return outputError(err)
			}
			return output(c, out)
		},
	}
}

// antiPatternsCmd creates the antipatterns command.
func antiPatternsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "antipatterns",
		Usage: "Show phrases that commonly mislead classification",
		Flags: []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			return output(c, ops.AntiPatterns(env))
		},
	}
}

// metricsCmd creates the metrics command.
func metricsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Show dataset and classifier metrics",
		Flags: []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			out, err := ops.Metrics(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return output(c, out)
		},
	}
}

// webCmd creates the web command.
func webCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Interface to listen on (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default from config)"},
		},
		Action: func(c *cli.Context) error {
			if bind := c.String("bind"); bind != "" {
				env.Cfg.WebBind = bind
			}
			if port := c.Int("port"); port > 0 {
				env.Cfg.WebPort = port
			}

			srv, err := web.NewServer(env, Version)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, env.Log)
		},
	}
}

// Helper functions

// output writes v to stdout in the format selected by --format.
func output(c *cli.Context, v any) error {
	switch strings.ToLower(strings.TrimSpace(c.String("format"))) {
	case "", "json":
		return outputJSON(v)
	case "yaml", "yml":
		return outputYAML(v)
	default:
		return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format %q (want json or yaml)", c.String("format"))))
	}
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputYAML writes result to stdout as YAML. The value goes through JSON
// first so field names and omitempty rules match the JSON output.
func outputYAML(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return outputError(errors.NewInternal(err))
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return outputError(errors.NewInternal(err))
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles the JSON input left on
// every node. The encoder still quotes strings that would not round-trip.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

// outputError formats error for CLI.
func outputError(err error) error {
	var mErr *errors.MailtagError
	if stderrors.As(err, &mErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", mErr.Code, mErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readMessage parses the raw message named by --eml, or piped via stdin
// when neither --subject nor --body was given. Returns nil when there is none.
func readMessage(c *cli.Context) (*message.Message, error) {
	if path := c.String("eml"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot open message: %v", err))
		}
		defer f.Close()
		return message.Parse(f)
	}
	if c.String("subject") != "" || c.String("body") != "" || !stdinHasData() {
		return nil, nil
	}
	return message.Parse(os.Stdin)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
