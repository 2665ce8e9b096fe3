package core

import "time"

// CashflowFlag is the three-way health classification of a period.
type CashflowFlag string

const (
	CashflowOK       CashflowFlag = "ok"
	CashflowWarning  CashflowFlag = "warning"
	CashflowCritical CashflowFlag = "critical"
)

// Archetype is one of the four fixed behavior labels. The set is fixed and
// never learned from data.
type Archetype string

const (
	ArchetypeSuperSaver        Archetype = "Super Saver"
	ArchetypeBalanced          Archetype = "Balanced"
	ArchetypeSubscriptionHeavy Archetype = "Subscription Heavy"
	ArchetypeLifestyleSpender  Archetype = "Lifestyle Spender"
)

type (
	// BasicStats summarizes one period. Net is exact (income - expense in
	// cents); SavingsRate is net/income, defined as 0 when income is 0.
	BasicStats struct {
		TotalIncome  Money   `json:"total_income"`
		TotalExpense Money   `json:"total_expense"`
		Net          Money   `json:"net"`
		SavingsRate  float64 `json:"savings_rate"`
	}

	// CategorySpend is one row of a period's expense breakdown. Share is
	// the fraction of total expense; shares across a breakdown sum to 1
	// unless total expense is zero, in which case the breakdown is empty.
	CategorySpend struct {
		Category string  `json:"category"`
		Total    Money   `json:"total"`
		Share    float64 `json:"share"`
	}

	// SpikeDay is a day whose expense total is an outlier relative to the
	// period's daily median. Excess is the amount above the spike
	// threshold (multiplier times the median).
	SpikeDay struct {
		Date   time.Time `json:"date"`
		Total  Money     `json:"total"`
		Excess Money     `json:"excess"`
	}

	// FeeSummary aggregates fee/penalty/interest style expenses.
	FeeSummary struct {
		Count int   `json:"count"`
		Total Money `json:"total"`
	}

	// SubscriptionSummary aggregates recurring-category spend.
	SubscriptionSummary struct {
		Count int   `json:"count"`
		Total Money `json:"total"`
	}

	// PatternReport is the output of pattern detection for one period.
	PatternReport struct {
		Fees          FeeSummary          `json:"fees"`
		Spikes        []SpikeDay          `json:"impulse_spikes"`
		Subscriptions SubscriptionSummary `json:"subscriptions"`
		Cashflow      CashflowFlag        `json:"cashflow_flag"`
	}

	// TrendRow compares one category's current-period spend against its
	// historical monthly average. DeltaPct is meaningful only when
	// PctDefined is true; a category new this period has no baseline and
	// therefore no percentage.
	TrendRow struct {
		Category   string  `json:"category"`
		Current    float64 `json:"current"`
		Baseline   float64 `json:"baseline"`
		Delta      float64 `json:"delta"`
		DeltaPct   float64 `json:"delta_pct"`
		PctDefined bool    `json:"pct_defined"`
	}

	// FeatureRow is one period's derived behavior features, the unit fed
	// to the profiler.
	FeatureRow struct {
		Period            Period  `json:"period"`
		SavingsRate       float64 `json:"savings_rate"`
		TotalExpense      float64 `json:"total_expense"`
		SubscriptionShare float64 `json:"subscription_share"`
		ShoppingShare     float64 `json:"shopping_share"`
	}

	// BehaviorProfile maps each period with data to exactly one archetype.
	// Descriptions always carries all four archetypes so consumers can
	// display context for labels not assigned this run.
	BehaviorProfile struct {
		LabelsByPeriod map[Period]Archetype `json:"labels_by_period"`
		Descriptions   map[Archetype]string `json:"descriptions"`
	}

	// PeriodSummary is one row of the monthly or weekly summary listing.
	PeriodSummary struct {
		Period       string `json:"period"`
		TotalIncome  Money  `json:"total_income"`
		TotalExpense Money  `json:"total_expense"`
		Net          Money  `json:"net"`
	}

	// BudgetStatus compares one budget against actual spend in a period.
	BudgetStatus struct {
		Category    string  `json:"category"`
		Budget      Money   `json:"budget"`
		Actual      Money   `json:"actual"`
		Utilisation float64 `json:"utilisation"`
		Status      string  `json:"status"`
	}
)

// ArchetypeDescriptions is the fixed description text shown alongside
// behavior labels.
func ArchetypeDescriptions() map[Archetype]string {
	return map[Archetype]string{
		ArchetypeSuperSaver:        "High savings rate, controlled expenses. Surplus and future security come first.",
		ArchetypeBalanced:          "Reasonable spending and decent savings. Mostly in control, with room to optimise.",
		ArchetypeSubscriptionHeavy: "A noticeable chunk of spend goes into recurring services. Good candidate for pruning.",
		ArchetypeLifestyleSpender:  "Higher shopping and lifestyle spend. Comforts are enjoyed, and a little trimming would not hurt.",
	}
}
