package cli

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/viant/afs"

	"github.com/datambit/datambit/client"
)

// ReportsCmd lists recent uploads.
type ReportsCmd struct {
	Page    int    `long:"page" default:"1" description:"page number"`
	PerPage int    `long:"per-page" default:"10" description:"entries per page"`
	Type    string `long:"type" description:"media type filter" choice:"audio" choice:"image" choice:"video"`
	app     *App
}

func (c *ReportsCmd) Execute(_ []string) error {
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	page, err := cli.RecentUploads(c.app.ctx, c.Page, c.PerPage, c.Type)
	if err != nil {
		return err
	}
	return c.app.printJSON(page)
}

// ReportCmd shows the per-file results of an upload.
type ReportCmd struct {
	app *App
}

func (c *ReportCmd) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("upload ID is required")
	}
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	detail, err := cli.Report(c.app.ctx, args[0])
	if err != nil {
		return err
	}
	return c.app.printJSON(detail)
}

// UploadCmd uploads media files for analysis.
type UploadCmd struct {
	Media string `long:"media" description:"media type" choice:"audio" choice:"image" choice:"video" required:"true"`
	app   *App
}

func (c *UploadCmd) Execute(args []string) error {
	files, err := c.app.openFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("at least one file is required")
	}
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	uploadID, err := cli.Upload(c.app.ctx, c.Media, files...)
	if err != nil {
		return err
	}
	c.app.printf("%v\n", uploadID)
	return nil
}

// SupportCmd raises a support ticket; positional arguments are attachments.
type SupportCmd struct {
	Reason string `long:"reason" description:"what went wrong" required:"true"`
	app    *App
}

func (c *SupportCmd) Execute(args []string) error {
	files, err := c.app.openFiles(args)
	if err != nil {
		return err
	}
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	ticketID, err := cli.SubmitTicket(c.app.ctx, c.Reason, files...)
	if err != nil {
		return err
	}
	c.app.printf("%v\n", ticketID)
	return nil
}

// TicketsCmd lists support tickets.
type TicketsCmd struct {
	app *App
}

func (c *TicketsCmd) Execute(_ []string) error {
	cli, err := c.app.Client()
	if err != nil {
		return err
	}
	tickets, err := cli.SupportTickets(c.app.ctx)
	if err != nil {
		return err
	}
	return c.app.printJSON(tickets)
}

// openFiles reads local paths or afs URLs into attachments.
func (a *App) openFiles(locations []string) ([]*client.File, error) {
	fs := afs.New()
	var ret []*client.File
	for _, location := range locations {
		URL := location
		if !strings.Contains(URL, "://") {
			if abs, err := filepath.Abs(URL); err == nil {
				URL = abs
			}
		}
		data, err := fs.DownloadWithURL(a.ctx, URL)
		if err != nil {
			return nil, err
		}
		file := client.NewFile(location, data)
		file.ContentType = mime.TypeByExtension(filepath.Ext(location))
		ret = append(ret, file)
	}
	return ret, nil
}
