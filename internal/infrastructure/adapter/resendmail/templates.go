package resendmail

import "html/template"

var subscriptionStartedTmpl = template.Must(template.New("subscription_started").Parse(`
<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
  <h2>Welcome aboard, {{.Name}}!</h2>
  <p>Your <strong>{{.PlanName}}</strong> subscription is now active.</p>
  <p>Your coins have been credited and are ready to spend.</p>
  <p style="color: #888; font-size: 13px;">&mdash; The {{.ProjectName}} team</p>
</div>
`))

var renewalReceiptTmpl = template.Must(template.New("renewal_receipt").Parse(`
<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
  <h2>Subscription renewed</h2>
  <p>Hi {{.Name}},</p>
  <p>Your <strong>{{.PlanName}}</strong> subscription has renewed and
  <strong>{{.CoinsAdded}}</strong> coins were added to your balance.</p>
  <p style="color: #888; font-size: 13px;">&mdash; The {{.ProjectName}} team</p>
</div>
`))

var subscriptionCancelledTmpl = template.Must(template.New("subscription_cancelled").Parse(`
<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
  <h2>Subscription cancelled</h2>
  <p>Hi {{.Name}},</p>
  <p>Your <strong>{{.PlanName}}</strong> subscription will not renew. You can
  keep using your remaining coins, and you are welcome back any time.</p>
  <p style="color: #888; font-size: 13px;">&mdash; The {{.ProjectName}} team</p>
</div>
`))
