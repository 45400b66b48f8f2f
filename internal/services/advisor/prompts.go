package advisor

import (
	"fmt"
	"strings"

	"github.com/folioai/folio/internal/interfaces"
	"github.com/folioai/folio/internal/models"
)

// buildPrompt creates the prompt for the requested advice kind.
func buildPrompt(kind models.AdviceKind, data interfaces.AdvicePromptData) string {
	switch kind {
	case models.AdviceKindOptimize:
		return buildOptimizePrompt(data)
	case models.AdviceKindTaxLoss:
		return buildTaxLossPrompt(data)
	case models.AdviceKindRegulatory:
		return buildRegulatoryPrompt(data)
	default:
		return buildGeneralPrompt(data)
	}
}

func buildGeneralPrompt(data interfaces.AdvicePromptData) string {
	var sb strings.Builder

	sb.WriteString("You are a personal investment advisor reviewing the portfolio below.\n\n")
	writeSnapshot(&sb, data)
	sb.WriteString(`
Provide practical advice for this investor:
- Assess overall portfolio health and diversification across sectors
- Identify concentration risk (any single position over 20% of total value)
- Comment on positions with large unrealized gains or losses
- Suggest 2-3 concrete next steps

Keep the response under 500 words. Write in plain prose, no markdown tables.
This is general information, not personalized financial advice.`)

	return sb.String()
}

func buildOptimizePrompt(data interfaces.AdvicePromptData) string {
	var sb strings.Builder

	sb.WriteString("You are a portfolio analyst looking for optimization opportunities in the portfolio below.\n\n")
	writeSnapshot(&sb, data)
	sb.WriteString(`
Suggest rebalancing and optimization opportunities:
- Overweight and underweight positions relative to a diversified baseline
- Sectors missing entirely from the portfolio
- Positions where the cost basis suggests averaging down or trimming
- Rough target allocation percentages for the suggested changes

Keep the response under 500 words. Be specific about which holdings to adjust.`)

	return sb.String()
}

func buildTaxLossPrompt(data interfaces.AdvicePromptData) string {
	var sb strings.Builder

	sb.WriteString("You are a tax-aware investment advisor reviewing loss-harvesting opportunities in the portfolio below.\n\n")
	writeSnapshot(&sb, data)

	if data.Gains != nil {
		g := data.Gains
		sb.WriteString(fmt.Sprintf("\nUnrealized gains for tax year %d (as of %s):\n", g.TaxYear, g.AsOf.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("- Short-term: %.2f\n", g.ShortTermGains))
		sb.WriteString(fmt.Sprintf("- Long-term: %.2f\n", g.LongTermGains))
		sb.WriteString(fmt.Sprintf("- Total: %.2f\n", g.TotalGains))
	}

	if len(data.Candidates) == 0 {
		sb.WriteString("\nNo positions currently trade below their cost basis.\n")
	} else {
		sb.WriteString("\nPositions trading below cost basis, largest loss first:\n")
		for i, c := range data.Candidates {
			sb.WriteString(fmt.Sprintf("%d. %s: %.4f shares, bought at %.2f, now %.2f, unrealized loss %.2f\n",
				i+1, c.Investment.Symbol, c.Investment.Shares,
				c.Investment.PurchasePrice, c.Investment.EffectivePrice(), c.TotalLoss))
		}
	}

	sb.WriteString(`
Explain which losses are worth harvesting and why:
- Weigh each candidate's loss against its role in the portfolio
- Note wash-sale timing considerations for any position the investor may rebuy
- Where losses could offset the short-term gains shown, say so explicitly

Keep the response under 500 words. This is general information, not tax advice.`)

	return sb.String()
}

func buildRegulatoryPrompt(data interfaces.AdvicePromptData) string {
	var sb strings.Builder

	sb.WriteString("You are a compliance analyst summarizing regulatory and reporting considerations for the retail portfolio below.\n\n")
	writeSnapshot(&sb, data)
	sb.WriteString(`
Summarize what this investor should be aware of:
- Capital-gains reporting obligations implied by the positions held
- Holding-period rules that change the tax treatment of any position
- Any sector-specific disclosure or ownership rules relevant to these holdings

Keep the response under 400 words. Cite rule names where you know them.
This is general information, not legal or tax advice.`)

	return sb.String()
}

// writeSnapshot formats the portfolio state shared by every prompt kind.
func writeSnapshot(sb *strings.Builder, data interfaces.AdvicePromptData) {
	s := data.Snapshot
	sb.WriteString(fmt.Sprintf("Portfolio: %s (as of %s)\n", s.PortfolioName, s.AsOf.Format("2006-01-02")))
	if data.RiskProfile != "" {
		sb.WriteString(fmt.Sprintf("Stated risk profile: %s\n", data.RiskProfile))
	}
	sb.WriteString(fmt.Sprintf("Total cost basis: %.2f\n", s.TotalCost))
	sb.WriteString(fmt.Sprintf("Total market value: %.2f\n", s.TotalValue))

	if len(s.Lots) == 0 {
		sb.WriteString("\nThe portfolio currently has no holdings.\n")
		return
	}

	sb.WriteString("\nHoldings:\n")
	for _, lot := range s.Lots {
		line := fmt.Sprintf("- %s", lot.Symbol)
		if lot.Name != "" {
			line += fmt.Sprintf(" (%s)", lot.Name)
		}
		line += fmt.Sprintf(": %.4f shares, cost %.2f, price %.2f, value %.2f, unrealized %+.2f",
			lot.Shares, lot.PurchasePrice, lot.EffectivePrice, lot.MarketValue, lot.UnrealizedGain)
		if lot.Sector != "" {
			line += fmt.Sprintf(", sector %s", lot.Sector)
		}
		sb.WriteString(line + "\n")
	}
}
