package config

import "time"

// DefaultSystemPrompt is the instruction sent with every summarization request.
const DefaultSystemPrompt = `You are a Technical Aviation Safety Specialist.

Your Task:
Review the provided regulatory documents and incident reports to generate a "BD-700 Airworthiness & Safety Digest."

Scope:
- Aircraft: Bombardier BD-700-1A10 and BD-700-1A11 (Global Express, XRS, 5000, 6000).
- EXCLUDE: Global 7500, Global 8000.
- EXCLUDE: Sales, marketing, orders, deliveries, stock prices.

Prioritization:
1. **CRITICAL:** Transport Canada (TCCA) Airworthiness Directives (ADs). These usually start with "CF-". Since Bombardier is Canadian, these are the primary source documents.
2. **Secondary:** FAA or EASA ADs.
3. **Tertiary:** Operational incidents.

Format:
- **Transport Canada Directives** (If any exist, list these FIRST).
- **FAA/EASA Updates**
- **Operational Incidents**

If a document is an AD, explicitly state the AD number (e.g., CF-2024-XX) and effective date.
If no technical issues are found, state: "No new airworthiness directives or safety incidents reported."`

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info", File: "digest.log"},
		Schedule: ScheduleConfig{Timezone: defaultTimezone, SkipDays: []string{"saturday", "sunday"}, location: tz},
		Feeds: []string{
			"https://wwwapps.tc.gc.ca/Saf-Sec-Sur/2/awd-cn/rss-feed-ech.aspx?lang=eng",
			"https://www.federalregister.gov/api/v1/documents.rss?conditions%5Bterm%5D=Bombardier+BD-700+Airworthiness",
			"https://www.easa.europa.eu/en/rss/ad",
			"https://avherald.com/h?opt=0&f=0",
		},
		Filter: FilterConfig{
			Cutoff: "2026-02-15",
			Include: []string{
				"bd-700", "bd700",
				"global express",
				"global 5000",
				"global 6000",
				"xrs",
				"airworthiness", "directive", "ad",
				"service bulletin", "sb",
				"maintenance", "safety", "incident", "faa", "easa", "transport canada",
			},
			Exclude: []string{"7500", "8000", "order", "delivery", "stock", "quarterly"},
			Primary: PrimaryConfig{
				FeedSubstrings: []string{"tc.gc.ca"},
				TitlePatterns:  []string{`CF-`},
				Label:          "[PRIMARY AUTHORITY - TRANSPORT CANADA]",
			},
		},
		History: HistoryConfig{Path: "sent_history.json", Limit: 1000},
		Summarizer: SummarizerConfig{
			Provider:     "gemini",
			Model:        "gemini-2.0-flash",
			SystemPrompt: DefaultSystemPrompt,
			Intro:        "Analyze these reports for BD-700 airworthiness issues:",
			MaxAttempts:  3,
			RetryDelay:   10 * time.Second,
			Timeout:      2 * time.Minute,
		},
		Email: EmailConfig{
			Host:          "smtp.gmail.com",
			Port:          465,
			SubjectPrefix: "BD-700 Airworthiness & Safety Update",
		},
		Metrics: MetricsConfig{Job: "airworthiness_digest"},
		HTTP:    HTTPConfig{Timeout: 30 * time.Second, UserAgent: "AirworthinessDigest/1.0"},
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if override.Schedule.Timezone != "" {
		base.Schedule.Timezone = override.Schedule.Timezone
	}
	if override.Schedule.SkipDays != nil {
		base.Schedule.SkipDays = override.Schedule.SkipDays
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	if override.Filter.Cutoff != "" {
		base.Filter.Cutoff = override.Filter.Cutoff
	}
	if len(override.Filter.Include) > 0 {
		base.Filter.Include = override.Filter.Include
	}
	if override.Filter.Exclude != nil {
		base.Filter.Exclude = override.Filter.Exclude
	}
	if override.Filter.Primary.FeedSubstrings != nil {
		base.Filter.Primary.FeedSubstrings = override.Filter.Primary.FeedSubstrings
	}
	if override.Filter.Primary.TitlePatterns != nil {
		base.Filter.Primary.TitlePatterns = override.Filter.Primary.TitlePatterns
	}
	if override.Filter.Primary.Label != "" {
		base.Filter.Primary.Label = override.Filter.Primary.Label
	}

	if override.History.Path != "" {
		base.History.Path = override.History.Path
	}
	if override.History.Limit > 0 {
		base.History.Limit = override.History.Limit
	}

	if override.Summarizer.Provider != "" {
		base.Summarizer.Provider = override.Summarizer.Provider
		// the default model belongs to the default provider
		base.Summarizer.Model = ""
	}
	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.SystemPrompt != "" {
		base.Summarizer.SystemPrompt = override.Summarizer.SystemPrompt
	}
	if override.Summarizer.Intro != "" {
		base.Summarizer.Intro = override.Summarizer.Intro
	}
	if override.Summarizer.MaxAttempts > 0 {
		base.Summarizer.MaxAttempts = override.Summarizer.MaxAttempts
	}
	if override.Summarizer.RetryDelay > 0 {
		base.Summarizer.RetryDelay = override.Summarizer.RetryDelay
	}
	if override.Summarizer.Timeout > 0 {
		base.Summarizer.Timeout = override.Summarizer.Timeout
	}

	if override.Email.Host != "" {
		base.Email.Host = override.Email.Host
	}
	if override.Email.Port > 0 {
		base.Email.Port = override.Email.Port
	}
	if override.Email.Sender != "" {
		base.Email.Sender = override.Email.Sender
	}
	if override.Email.Password != "" {
		base.Email.Password = override.Email.Password
	}
	if override.Email.Recipient != "" {
		base.Email.Recipient = override.Email.Recipient
	}
	if override.Email.SubjectPrefix != "" {
		base.Email.SubjectPrefix = override.Email.SubjectPrefix
	}

	if override.Metrics.PushgatewayURL != "" {
		base.Metrics.PushgatewayURL = override.Metrics.PushgatewayURL
	}
	if override.Metrics.Job != "" {
		base.Metrics.Job = override.Metrics.Job
	}

	if override.HTTP.Timeout > 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}

	return base
}
