// Package bot answers factory questions with an ordered keyword rule table.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/dyluth/factorydash/internal/factory"
	"github.com/dyluth/factorydash/pkg/factoryapi"
	"github.com/google/uuid"
)

// TimestampFormat is ISO8601 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// DefaultReply is returned when no rule matches.
const DefaultReply = "I'm sorry, I don't understand that question about the factory."

// Rule pairs a predicate over the lowercased message with a reply.
type Rule struct {
	Name  string
	Match func(message string) bool
	Reply func() string
}

// Keyword builds a rule matching messages that contain keyword.
func Keyword(keyword, reply string) Rule {
	return AnyKeyword(keyword, []string{keyword}, func() string { return reply })
}

// AnyKeyword builds a rule matching messages that contain any of keywords.
// reply is evaluated on every match.
func AnyKeyword(name string, keywords []string, reply func() string) Rule {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return Rule{
		Name: name,
		Match: func(message string) bool {
			for _, k := range lowered {
				if strings.Contains(message, k) {
					return true
				}
			}
			return false
		},
		Reply: reply,
	}
}

const (
	productionReply = "Production is currently at 1,245 units, which is 12% higher than last month."
	efficiencyReply = "The current efficiency rate is 89.2%, which is 4.3% higher than last month."
	downtimeReply   = "Current downtime is 3.2 hours, which is slightly higher than our target."
	profitReply     = "The profit margin is currently at 24.5%, which is 2.1% higher than last month."
	helpReply       = "You can ask me about production rates, efficiency, downtime, or profit margins. I can also help you understand factory status and metrics."
)

// DefaultRules is the factory keyword table, evaluated top to bottom.
func DefaultRules() []Rule {
	return []Rule{
		Keyword("production", productionReply),
		Keyword("efficiency", efficiencyReply),
		Keyword("downtime", downtimeReply),
		Keyword("profit", profitReply),
		Keyword("help", helpReply),
	}
}

// FactoryRules extends DefaultRules with synonyms and with line status, batch
// quality and energy answers read from gen at question time. The extra rules
// come last so every DefaultRules match is unchanged.
func FactoryRules(gen factory.Generator) []Rule {
	static := func(reply string) func() string { return func() string { return reply } }
	return append(DefaultRules(),
		AnyKeyword("output", []string{"output", "units"}, static(productionReply)),
		AnyKeyword("performance", []string{"performance"}, static(efficiencyReply)),
		AnyKeyword("maintenance", []string{"maintenance", "repair"}, static(downtimeReply)),
		AnyKeyword("status", []string{"status", "condition", "state"}, func() string {
			return statusReply(gen.Status())
		}),
		AnyKeyword("quality", []string{"quality", "pass rate"}, func() string {
			q := gen.BatchQuality()
			return fmt.Sprintf("The average batch quality pass rate is %.2f%%. Our best batch had a %.2f%% pass rate, while our worst had a %.2f%% pass rate.",
				q.Average, q.Max, q.Min)
		}),
		AnyKeyword("energy", []string{"energy", "consumption", "emissions"}, func() string {
			e := gen.EnergyMetrics()
			return fmt.Sprintf("Average energy consumption is %.2f kWh with an efficiency rating of %.2f. CO2 emissions average %.2f kg.",
				e.Consumption, e.Efficiency, e.Emissions)
		}),
		AnyKeyword("assist", []string{"assist", "command", "what can you"}, static(helpReply)),
	)
}

// statusReply counts lines per state. Three or more operational lines is good.
func statusReply(lines []factoryapi.LineStatus) string {
	counts := make(map[factoryapi.LineState]int)
	for _, l := range lines {
		counts[l.Status]++
	}
	overall := "concerning."
	if counts[factoryapi.LineOperational] >= 3 {
		overall = "good."
	}
	return fmt.Sprintf("Currently, %d production lines are operational, %d lines are showing warnings, and %d lines are down. Overall factory status is %s",
		counts[factoryapi.LineOperational], counts[factoryapi.LineWarning], counts[factoryapi.LineDown], overall)
}

// Bot dispatches messages over an ordered rule list. First match wins.
type Bot struct {
	rules    []Rule
	fallback string
	now      func() time.Time
}

// Option configures a Bot.
type Option func(*Bot)

// WithClock overrides the clock used for reply timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// WithFallback overrides the default reply.
func WithFallback(reply string) Option {
	return func(b *Bot) { b.fallback = reply }
}

// New creates a bot over rules. A nil rule list uses DefaultRules.
func New(rules []Rule, opts ...Option) *Bot {
	if rules == nil {
		rules = DefaultRules()
	}
	b := &Bot{
		rules:    rules,
		fallback: DefaultReply,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Answer returns the reply text for message.
func (b *Bot) Answer(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range b.rules {
		if rule.Match(lowered) {
			return rule.Reply()
		}
	}
	return b.fallback
}

// Respond builds a full bot response for message.
func (b *Bot) Respond(message string) factoryapi.BotResponse {
	return factoryapi.BotResponse{
		ID:        uuid.New().String(),
		Message:   b.Answer(message),
		Timestamp: b.now().UTC().Format(TimestampFormat),
	}
}
