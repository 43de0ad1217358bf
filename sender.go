package abuseguard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// ReportTimeLayout is ISO-8601 in UTC with millisecond precision
const ReportTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// AbuseIPDBSender posts reports to the AbuseIPDB v2 report endpoint
type AbuseIPDBSender struct {
	client   *fasthttp.Client
	endpoint string
	apiKey   string
}

func NewAbuseIPDBSender(endpoint, apiKey string) *AbuseIPDBSender {
	return &AbuseIPDBSender{
		client: &fasthttp.Client{
			Name:                "abuseguard/1.0",
			MaxIdleConnDuration: 30 * time.Second,
		},
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

func (s *AbuseIPDBSender) Name() string {
	return "abuseipdb"
}

// Send issues one POST. Any response counts as delivered; only transport
// failures are returned.
func (s *AbuseIPDBSender) Send(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("abuseipdb: report %s not sent: %w", report.IP, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	defer fasthttp.ReleaseArgs(args)

	args.Add("ip", report.IP)
	args.Add("categories", report.Categories)
	args.Add("comment", report.Comment)
	args.Add("timestamp", report.Timestamp.UTC().Format(ReportTimeLayout))

	req.SetRequestURI(s.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set("Key", s.apiKey)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBody(args.QueryString())

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = s.client.DoDeadline(req, resp, deadline)
	} else {
		err = s.client.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("abuseipdb: report %s: %w", report.IP, err)
	}
	return nil
}

// LogSender only logs reports. Useful as a dry run.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Name() string {
	return "log"
}

func (s *LogSender) Send(ctx context.Context, report Report) error {
	s.logger.Info().
		Str("report_id", report.ID).
		Str("ip", report.IP).
		Str("categories", report.Categories).
		Str("comment", report.Comment).
		Time("timestamp", report.Timestamp).
		Msg("dry run: report not sent")
	return nil
}
