package dataset

import (
	"time"

	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// sampleEmails returns the labeled sample emails, grouped by customer.
func sampleEmails() []Email {
	return []Email{
		// Acme Corp
		{ID: "1", CustomerID: "customer_A", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-15T09:23:00Z"),
			Subject: "Payment failed for invoice #12345",
			Body:    "Hi, my credit card payment was declined this morning. The charge for $299.99 didn't go through. Can you help me process this payment? My billing address hasn't changed."},
		{ID: "2", CustomerID: "customer_A", Tag: taxonomy.TechnicalSupport, Timestamp: mustTime("2025-01-15T10:45:00Z"),
			Subject: "Cannot connect to API endpoint",
			Body:    "Our production environment is experiencing 503 errors when calling /api/v2/users. This started about 30 minutes ago. Error logs show 'Connection timeout'. Need urgent assistance."},
		{ID: "3", CustomerID: "customer_A", Tag: taxonomy.FeatureRequest, Timestamp: mustTime("2025-01-14T14:20:00Z"),
			Subject: "Add bulk export functionality",
			Body:    "Would love to see a feature that allows exporting all user data in CSV format. Currently we can only export one record at a time which is very time consuming for our team."},
		{ID: "4", CustomerID: "customer_A", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-13T11:15:00Z"),
			Subject: "Refund request for double charge",
			Body:    "I was charged twice for last month's subscription - once on Jan 1st and again on Jan 5th. Please refund one of these charges. Transaction IDs: TXN-991823 and TXN-991956."},
		{ID: "5", CustomerID: "customer_A", Tag: taxonomy.TechnicalSupport, Timestamp: mustTime("2025-01-12T16:30:00Z"),
			Subject: "API rate limits too restrictive",
			Body:    "The current 100 requests/minute limit is causing issues for our integration. Is there a way to increase this? We're on the Enterprise plan and need at least 500 requests/minute."},
		{ID: "6", CustomerID: "customer_A", Tag: taxonomy.FeatureRequest, Timestamp: mustTime("2025-01-11T13:45:00Z"),
			Subject: "Dark mode for dashboard",
			Body:    "It would be great if the admin dashboard had a dark mode option. Our team works late hours and the bright interface is hard on the eyes. This is a common request from our users."},
		{ID: "7", CustomerID: "customer_A", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-10T10:00:00Z"),
			Subject: "Invoice missing tax details",
			Body:    "The invoice for December doesn't show the tax breakdown. We need this for our accounting department. Can you resend with full tax information included?"},
		{ID: "8", CustomerID: "customer_A", Tag: taxonomy.TechnicalSupport, Timestamp: mustTime("2025-01-09T15:20:00Z"),
			Subject: "SSL certificate error on subdomain",
			Body:    "Getting SSL_CERTIFICATE_UNKNOWN errors when accessing api-staging.example.com. The main domain works fine. Can you check the certificate configuration?"},
		{ID: "9", CustomerID: "customer_A", Tag: taxonomy.FeatureRequest, Timestamp: mustTime("2025-01-08T12:00:00Z"),
			Subject: "Integration with Salesforce",
			Body:    "We use Salesforce as our CRM and would love a native integration. Currently doing manual data entry which is error-prone. A two-way sync would be ideal."},
		{ID: "10", CustomerID: "customer_A", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-07T09:30:00Z"),
			Subject: "Upgrade to annual plan - discount question",
			Body:    "Currently on monthly billing at $99/mo. If I switch to annual, do I get a discount? Also, will the unused portion of this month be credited?"},
		{ID: "11", CustomerID: "customer_A", Tag: taxonomy.TechnicalSupport, Timestamp: mustTime("2025-01-06T14:15:00Z"),
			Subject: "Webhook delivery failures",
			Body:    "Our webhook endpoint at https://hooks.acme.com/events hasn't received any events since yesterday. The endpoint is up and responding with 200. Can you check your delivery logs?"},
		{ID: "12", CustomerID: "customer_A", Tag: taxonomy.FeatureRequest, Timestamp: mustTime("2025-01-05T11:45:00Z"),
			Subject: "Custom fields in user profiles",
			Body:    "Need ability to add custom fields to user profiles. Our business requires tracking internal employee IDs and department codes that aren't currently supported."},
		{ID: "13", CustomerID: "customer_A", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-04T10:20:00Z"),
			Subject: "Billing cycle change request",
			Body:    "Can we change our billing date from the 1st to the 15th of each month? This would align better with our internal accounting processes."},
		// Beta Industries
		{ID: "14", CustomerID: "customer_B", Tag: taxonomy.AccountIssue, Timestamp: mustTime("2025-01-15T08:45:00Z"),
			Subject: "Cannot reset password",
			Body:    "I've tried the 'Forgot Password' link multiple times but never receive the reset email. Checked spam folder too. My email is correct: john@betaindustries.com"},
		{ID: "15", CustomerID: "customer_B", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-14T13:30:00Z"),
			Subject: "Dashboard shows wrong data",
			Body:    "The analytics dashboard is displaying user counts from last week. Refreshed multiple times but still showing 1,234 users when we actually have 2,456. Browser: Chrome 120."},
		{ID: "16", CustomerID: "customer_B", Tag: taxonomy.GeneralInquiry, Timestamp: mustTime("2025-01-13T16:00:00Z"),
			Subject: "How to add team members?",
			Body:    "Quick question - what's the process for adding new team members to our account? Can't find this in the documentation. Do they need separate licenses?"},
		{ID: "17", CustomerID: "customer_B", Tag: taxonomy.AccountIssue, Timestamp: mustTime("2025-01-12T09:15:00Z"),
			Subject: "Email verification link expired",
			Body:    "Created a new account yesterday but didn't verify the email in time. Now the verification link is expired and I can't login. How do I resend the verification email?"},
		{ID: "18", CustomerID: "customer_B", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-11T14:45:00Z"),
			Subject: "Export button not working",
			Body:    "Clicking the 'Export to CSV' button doesn't do anything. No download starts, no error message. Tested on both Firefox and Safari. This worked fine last month."},
		{ID: "19", CustomerID: "customer_B", Tag: taxonomy.GeneralInquiry, Timestamp: mustTime("2025-01-10T11:30:00Z"),
			Subject: "Documentation on API authentication",
			Body:    "Where can I find complete documentation on API authentication methods? The getting started guide mentions OAuth but doesn't show implementation examples."},
		{ID: "20", CustomerID: "customer_B", Tag: taxonomy.AccountIssue, Timestamp: mustTime("2025-01-09T10:00:00Z"),
			Subject: "Two-factor authentication issues",
			Body:    "Enabled 2FA yesterday but now my authenticator app codes aren't working. Getting 'Invalid code' error. I'm locked out of my account. Tried backup codes - also invalid."},
		{ID: "21", CustomerID: "customer_B", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-08T15:20:00Z"),
			Subject: "Mobile app crashes on launch",
			Body:    "iOS app crashes immediately after opening. Just see the splash screen then it closes. iPhone 14 Pro, iOS 17.2. Deleted and reinstalled - same issue. App worked fine last week."},
		{ID: "22", CustomerID: "customer_B", Tag: taxonomy.GeneralInquiry, Timestamp: mustTime("2025-01-07T12:45:00Z"),
			Subject: "Service status and uptime",
			Body:    "Is there a status page where we can check system uptime and scheduled maintenance windows? Need this for our internal monitoring."},
		{ID: "23", CustomerID: "customer_B", Tag: taxonomy.AccountIssue, Timestamp: mustTime("2025-01-06T09:30:00Z"),
			Subject: "Cannot change account email address",
			Body:    "Trying to update my account email from old@beta.com to new@betaindustries.com but get 'Email already in use' error. The new email is definitely not registered elsewhere."},
		{ID: "24", CustomerID: "customer_B", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-05T14:00:00Z"),
			Subject: "Notification emails not arriving",
			Body:    "Stopped receiving notification emails about 3 days ago. Checked settings - notifications are enabled. Receiving other emails fine so it's not our mail server."},
		{ID: "25", CustomerID: "customer_B", Tag: taxonomy.GeneralInquiry, Timestamp: mustTime("2025-01-04T11:15:00Z"),
			Subject: "Training materials availability",
			Body:    "Do you offer training webinars or video tutorials for new users? Our team is onboarding 20 people next month and want to prepare materials."},
		{ID: "26", CustomerID: "customer_B", Tag: taxonomy.AccountIssue, Timestamp: mustTime("2025-01-03T10:45:00Z"),
			Subject: "Account locked after multiple login attempts",
			Body:    "My account got locked after I mistyped my password a few times. How long until it automatically unlocks? Or is there a way to unlock it manually?"},
		// Gamma Tech
		{ID: "27", CustomerID: "customer_C", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-15T13:20:00Z"),
			Subject: "Overcharge on monthly bill",
			Body:    "This month's bill shows $1,499 but our plan is $999/month. The additional $500 appears to be for API calls but we're well under our quota. Please review and correct."},
		{ID: "28", CustomerID: "customer_C", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-14T16:45:00Z"),
			Subject: "Search function returns no results",
			Body:    "The search bar in the dashboard returns 'No results found' for everything. Even searching for items I'm currently looking at. Tried different browsers - same issue everywhere."},
		{ID: "29", CustomerID: "customer_C", Tag: taxonomy.FeatureRequest, Timestamp: mustTime("2025-01-13T10:30:00Z"),
			Subject: "Multi-language support",
			Body:    "Our company operates in 5 countries. Would be extremely valuable to have the interface available in Spanish, French, and German in addition to English."},
		{ID: "30", CustomerID: "customer_C", Tag: taxonomy.TechnicalSupport, Timestamp: mustTime("2025-01-12T14:00:00Z"),
			Subject: "GraphQL API timeout errors",
			Body:    "Getting timeout errors on complex GraphQL queries. Simple queries work fine but anything with nested relations times out after 30 seconds. Error code: ECONNABORTED."},
		{ID: "31", CustomerID: "customer_C", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-11T09:15:00Z"),
			Subject: "Credit card declined but still charged",
			Body:    "Payment was declined yesterday (card expired) but I still see a pending charge for $999 on my statement. Can you verify if payment went through or not?"},
		{ID: "32", CustomerID: "customer_C", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-10T15:30:00Z"),
			Subject: "Dates showing in wrong timezone",
			Body:    "All timestamps in the UI show EST but our team is in PST. User profile is set to Pacific timezone but dates still display incorrectly. Started after last update."},
		{ID: "33", CustomerID: "customer_C", Tag: taxonomy.FeatureRequest, Timestamp: mustTime("2025-01-09T11:45:00Z"),
			Subject: "Audit log export feature",
			Body:    "Need ability to export complete audit logs for compliance purposes. Currently can only view in UI but need downloadable reports for SOC 2 audit."},
		{ID: "34", CustomerID: "customer_C", Tag: taxonomy.TechnicalSupport, Timestamp: mustTime("2025-01-08T13:00:00Z"),
			Subject: "CORS errors on staging environment",
			Body:    "Production works fine but staging.gamma.com getting CORS errors when calling your API. Access-Control-Allow-Origin header seems to be missing. Can you whitelist our staging domain?"},
		{ID: "35", CustomerID: "customer_C", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-07T10:20:00Z"),
			Subject: "Invoice payment method update",
			Body:    "Need to update the credit card on file for automatic billing. Current card expires end of this month. Where do I update payment information?"},
		{ID: "36", CustomerID: "customer_C", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-06T14:50:00Z"),
			Subject: "Image uploads fail silently",
			Body:    "Uploading profile images appears to work (shows progress bar) but images never actually save. No error message displayed. Files are under 5MB limit. PNG and JPG both affected."},
		{ID: "37", CustomerID: "customer_C", Tag: taxonomy.FeatureRequest, Timestamp: mustTime("2025-01-05T12:15:00Z"),
			Subject: "Role-based access control",
			Body:    "Need more granular permission controls. Currently just Admin/User roles. We need Editor, Viewer, and Analyst roles with different permission sets for each."},
		{ID: "38", CustomerID: "customer_C", Tag: taxonomy.TechnicalSupport, Timestamp: mustTime("2025-01-04T14:30:00Z"),
			Subject: "Database connection pool exhausted",
			Body:    "Getting 'connection pool exhausted' errors during peak hours (2-4pm EST). Database queries timing out. This is impacting our production service. Need urgent help scaling."},
		{ID: "39", CustomerID: "customer_C", Tag: taxonomy.Billing, Timestamp: mustTime("2025-01-03T09:45:00Z"),
			Subject: "Annual subscription early renewal discount",
			Body:    "Our annual plan renews in March. If we renew early (now in January) do we get any discount? Also, would the new year start from renewal date or from March?"},
		{ID: "40", CustomerID: "customer_C", Tag: taxonomy.BugReport, Timestamp: mustTime("2025-01-02T11:00:00Z"),
			Subject: "Pagination broken on reports page",
			Body:    "The pagination controls on the Reports page show page 1 of 1 even though there are clearly multiple pages of data. Clicking next/previous does nothing. Only showing first 25 results."},
	}
}

// mustTime parses an RFC 3339 timestamp from the static table.
func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
