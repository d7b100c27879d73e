package mcp

import "github.com/mark3labs/mcp-go/mcp"

var classifyToolDef = mcp.NewTool("email_classify",
	mcp.WithDescription("Classify a support email into exactly one tag allowed for its customer. "+
		"Returns tag, confidence, reasoning and whether the result needs human review (confidence <= 0.7). "+
		"Provide customer_id, or tags to classify against an explicit tag list."),
	mcp.WithString("customer_id", mcp.Description("Customer identifier, e.g. customer_A")),
	mcp.WithString("subject", mcp.Required(), mcp.Description("Email subject")),
	mcp.WithString("body", mcp.Required(), mcp.Description("Email body text")),
	mcp.WithArray("tags",
		mcp.Description("Allowed tags; narrows the customer's tags when customer_id is also given"),
		mcp.WithStringItems(),
	),
	mcp.WithString("mode",
		mcp.Description("Scoring mode override"),
		mcp.Enum("cascade", "highest"),
	),
)

var sampleToolDef = mcp.NewTool("email_sample",
	mcp.WithDescription("Return a random sample email from the customer's labeled dataset."),
	mcp.WithString("customer_id", mcp.Required(), mcp.Description("Customer identifier")),
)

var listEmailsToolDef = mcp.NewTool("email_list",
	mcp.WithDescription("List labeled sample emails in dataset order, optionally filtered by customer and tag."),
	mcp.WithString("customer_id", mcp.Description("Only emails of this customer")),
	mcp.WithString("tag", mcp.Description("Only emails with this tag")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip (default 0)")),
)

var getEmailToolDef = mcp.NewTool("email_get",
	mcp.WithDescription("Fetch one labeled sample email by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Email id")),
)

var customersToolDef = mcp.NewTool("customer_list",
	mcp.WithDescription("List customers with the tags their emails may receive."),
)

var customerTagsToolDef = mcp.NewTool("customer_tags",
	mcp.WithDescription("Return the ordered tag list of one customer. The first tag is the fallback."),
	mcp.WithString("customer_id", mcp.Required(), mcp.Description("Customer identifier")),
)

var patternsToolDef = mcp.NewTool("pattern_list",
	mcp.WithDescription("List the reference keyword patterns per tag."),
	mcp.WithString("tag", mcp.Description("Only patterns of this tag")),
)

var antiPatternsToolDef = mcp.NewTool("pattern_antipatterns",
	mcp.WithDescription("List phrases that commonly mislead classification, with the correct context."),
)

var metricsToolDef = mcp.NewTool("metrics_summary",
	mcp.WithDescription("Dataset metrics: per-customer tag distribution, simulated and measured accuracy, "+
		"tag leakage and common confusion pairs."),
)
