package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	table "github.com/mutablelogic/go-lingo/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ArticleCommands struct {
	ListArticles     ListArticlesCommand     `cmd:"" name:"articles" help:"List saved articles." group:"ARTICLE"`
	GetArticle       GetArticleCommand       `cmd:"" name:"article" help:"Show an article." group:"ARTICLE"`
	CreateArticle    CreateArticleCommand    `cmd:"" name:"create-article" help:"Save an article from a file." group:"ARTICLE"`
	GenerateArticle  GenerateArticleCommand  `cmd:"" name:"generate-article" help:"Ask the assistant to write an article." group:"ARTICLE"`
	DeleteArticle    DeleteArticleCommand    `cmd:"" name:"delete-article" help:"Delete an article." group:"ARTICLE"`
	VectorizeArticle VectorizeArticleCommand `cmd:"" name:"vectorize-article" help:"Index an article so questions can be asked about it." group:"ARTICLE"`
	Progress         ProgressCommand         `cmd:"" name:"progress" help:"Show or set the reading progress of an article." group:"ARTICLE"`
	Vector           VectorCommand           `cmd:"" name:"vector" help:"Check whether an article has been indexed." group:"ARTICLE"`
}

type ListArticlesCommand struct{}

type GetArticleCommand struct {
	ID uint64 `arg:"" name:"id" help:"Article ID"`
}

type CreateArticleCommand struct {
	Title string `arg:"" name:"title" help:"Article title"`
	Path  string `arg:"" name:"path" help:"File with the article content, or - for standard input"`
}

type GenerateArticleCommand struct {
	Prompt []string `arg:"" name:"prompt" help:"What the article should be about"`
	Save   string   `name:"save" help:"Save the article with this title"`
}

type DeleteArticleCommand struct {
	ID uint64 `arg:"" name:"id" help:"Article ID"`
}

type VectorizeArticleCommand struct {
	ID         uint64 `arg:"" name:"id" help:"Article ID"`
	Collection string `name:"collection" help:"Vector collection" default:"${collection}"`
}

type ProgressCommand struct {
	ID       uint64 `arg:"" name:"id" help:"Article ID"`
	Progress string `arg:"" name:"progress" help:"Fraction of the article read, between 0 and 1" optional:""`
}

type VectorCommand struct {
	ID         uint64 `arg:"" name:"id" help:"Article ID"`
	Collection string `name:"collection" help:"Vector collection" default:"${collection}"`
}

type articleList []schema.ArticleSummary

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListArticlesCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	articles, err := client.ListArticles(ctx.ctx)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return ctx.out.Status("No articles found")
	}
	return ctx.out.Table(articleList(articles))
}

func (cmd *GetArticleCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	article, err := client.GetArticle(ctx.ctx, cmd.ID)
	if err != nil {
		return err
	}
	return ctx.out.Markdown("# " + article.ArticleTitle + "\n\n" + article.ArticleContent)
}

func (cmd *CreateArticleCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	content, err := readContent(cmd.Path)
	if err != nil {
		return err
	}
	if err := client.CreateArticle(ctx.ctx, schema.ArticleRequest{
		ArticleTitle:   cmd.Title,
		ArticleContent: content,
	}); err != nil {
		return err
	}
	return ctx.out.Status("Saved article %q", cmd.Title)
}

func (cmd *GenerateArticleCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	result, err := client.GenerateArticleStream(ctx.ctx, schema.AiArticleRequest{
		Prompt: strings.Join(cmd.Prompt, " "),
	}, ctx.stream())
	if err := ctx.finish(result, err); err != nil || !result.IsSuccess {
		return err
	}
	if cmd.Save == "" {
		return nil
	}
	if err := client.CreateArticle(ctx.ctx, schema.ArticleRequest{
		ArticleTitle:   cmd.Save,
		ArticleContent: result.Data.Response,
	}); err != nil {
		return err
	}
	return ctx.out.Status("Saved article %q", cmd.Save)
}

func (cmd *DeleteArticleCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.DeleteArticle(ctx.ctx, cmd.ID); err != nil {
		return err
	}
	if err := ctx.defaults.Set(ragKey(cmd.ID), ""); err != nil {
		return err
	}
	return ctx.out.Status("Deleted article %d", cmd.ID)
}

func (cmd *VectorizeArticleCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.VectorizeArticle(ctx.ctx, schema.VectorizeArticleRequest{
		ArticleID:      cmd.ID,
		CollectionName: cmd.Collection,
	}); err != nil {
		return err
	}
	return ctx.out.Status("Indexed article %d in %q", cmd.ID, cmd.Collection)
}

func (cmd *ProgressCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Set the progress
	if cmd.Progress != "" {
		value, err := strconv.ParseFloat(cmd.Progress, 64)
		if err != nil {
			return lingo.ErrBadParameter.Withf("progress %q", cmd.Progress)
		}
		if err := client.UpdateReadingProgress(ctx.ctx, schema.UpdateReadingProgressRequest{
			ArticleID: cmd.ID,
			Progress:  value,
		}); err != nil {
			return err
		}
	}

	progress, err := client.GetReadingProgress(ctx.ctx, cmd.ID)
	if err != nil {
		return err
	}
	return ctx.out.Status("Article %d is %s read", cmd.ID, table.FormatCell(table.Percent(progress.Progress)))
}

func (cmd *VectorCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	exists, err := client.VectorExists(ctx.ctx, schema.CheckVectorRequest{
		ArticleID:      cmd.ID,
		CollectionName: cmd.Collection,
	})
	if err != nil {
		return err
	}
	if !exists {
		return ctx.out.Status("Article %d is not indexed in %q", cmd.ID, cmd.Collection)
	}
	return ctx.out.Status("Article %d is indexed in %q", cmd.ID, cmd.Collection)
}

///////////////////////////////////////////////////////////////////////////////
// TABLES

func (l articleList) Header() []string {
	return []string{"ID", "TITLE"}
}

func (l articleList) Len() int {
	return len(l)
}

func (l articleList) Row(i int) []any {
	return []any{l[i].ArticleID, table.Bold{Value: l[i].ArticleTitle}}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// readContent returns the contents of the file at path, or standard input
// when path is "-"
func readContent(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	} else if len(data) == 0 {
		return "", lingo.ErrBadParameter.With("article is empty")
	}
	return string(data), nil
}
