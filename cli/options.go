package cli

import "github.com/datambit/datambit"

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"client options YAML/JSON URL"`
	Verbose bool   `short:"v" long:"verbose" description:"debug logging"`
	datambit.ClientOptions

	Login         *LoginCmd         `command:"login" description:"Log in and store the session"`
	Register      *RegisterCmd      `command:"register" description:"Create an account with an access code"`
	Logout        *LogoutCmd        `command:"logout" description:"Remove stored credentials"`
	Consent       *ConsentCmd       `command:"consent" description:"Show or record durable storage consent (accepted|rejected)"`
	Status        *StatusCmd        `command:"status" description:"Show the stored session"`
	ResetPassword *ResetPasswordCmd `command:"reset-password" description:"Request a one-time code or set a new password"`
	Access        *AccessCmd        `command:"access" description:"Request API access for an organisation"`
	Reports       *ReportsCmd       `command:"reports" description:"List recent uploads"`
	Report        *ReportCmd        `command:"report" description:"Show the results of an upload"`
	Upload        *UploadCmd        `command:"upload" description:"Upload media files for analysis"`
	Support       *SupportCmd       `command:"support" description:"Raise a support ticket"`
	Tickets       *TicketsCmd       `command:"tickets" description:"List support tickets"`
}

// Init instantiates sub-commands bound to app so that flags.Parse can populate their fields.
func (o *Options) Init(app *App) {
	o.Login = &LoginCmd{app: app}
	o.Register = &RegisterCmd{app: app}
	o.Logout = &LogoutCmd{app: app}
	o.Consent = &ConsentCmd{app: app}
	o.Status = &StatusCmd{app: app}
	o.ResetPassword = &ResetPasswordCmd{app: app}
	o.Access = &AccessCmd{app: app}
	o.Reports = &ReportsCmd{app: app}
	o.Report = &ReportCmd{app: app}
	o.Upload = &UploadCmd{app: app}
	o.Support = &SupportCmd{app: app}
	o.Tickets = &TicketsCmd{app: app}
}
