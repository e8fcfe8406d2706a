package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recipebox/internal/detail"
	"github.com/roach88/recipebox/internal/editor"
	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/validate"
)

// RecipeView is the JSON shape of a recipe.
type RecipeView struct {
	ID           int64    `json:"id"`
	Image        string   `json:"image"`
	Name         string   `json:"name"`
	CategoryID   int64    `json:"category_id"`
	CategoryName string   `json:"category_name"`
	Ingredients  []string `json:"ingredients"`
	Steps        []string `json:"steps"`
}

func recipeView(r model.Recipe) RecipeView {
	v := RecipeView{
		ID:           int64(r.ID),
		Image:        r.Image,
		Name:         r.Name,
		CategoryID:   int64(r.CategoryID),
		CategoryName: r.CategoryName,
		Ingredients:  r.Ingredients,
		Steps:        r.Steps,
	}
	if v.Ingredients == nil {
		v.Ingredients = []string{}
	}
	if v.Steps == nil {
		v.Steps = []string{}
	}
	return v
}

func recipeViews(rs []model.Recipe) []RecipeView {
	out := make([]RecipeView, 0, len(rs))
	for _, r := range rs {
		out = append(out, recipeView(r))
	}
	return out
}

func writeRecipeList(w io.Writer, rs []model.Recipe) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "No recipes.")
		return
	}
	for _, r := range rs {
		fmt.Fprintf(w, "%4d  %-30s  %s\n", r.ID, r.Name, r.CategoryName)
	}
}

func writeRecipe(w io.Writer, r model.Recipe) {
	fmt.Fprintf(w, "#%d %s\n", r.ID, r.Name)
	fmt.Fprintf(w, "Category: %s\n", r.CategoryName)
	fmt.Fprintf(w, "Image: %s\n", r.Image)
	fmt.Fprintln(w, "Ingredients:")
	for _, in := range r.Ingredients {
		fmt.Fprintf(w, "  - %s\n", in)
	}
	fmt.Fprintln(w, "Steps:")
	for i, s := range r.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
}

func parseRecipeID(arg string) (model.RecipeID, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid recipe id %q", arg))
	}
	return model.RecipeID(n), nil
}

func categoryIDs(ids []int64) []model.CategoryID {
	out := make([]model.CategoryID, len(ids))
	for i, id := range ids {
		out[i] = model.CategoryID(id)
	}
	return out
}

// NewCategoriesCommand lists the known categories.
func NewCategoriesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List recipe categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			cats, err := app.Repo.CategoryList(ctx)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(cats, func(w io.Writer) {
				for _, c := range cats {
					fmt.Fprintf(w, "%4d  %s\n", c.ID, c.Name)
				}
			})
		},
	}
}

// NewListCommand lists recipes, optionally filtered by category.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var cats []int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Long: `List stored recipes in id order.

Without --category every recipe is listed. Repeat --category to list the
recipes in any of the given categories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			rs, err := app.Repo.Snapshot(ctx, categoryIDs(cats))
			if err != nil {
				return WrapExitError(ExitCommandError, "list recipes", err)
			}
			return opts.formatter(cmd).Success(recipeViews(rs), func(w io.Writer) {
				writeRecipeList(w, rs)
			})
		},
	}
	cmd.Flags().Int64SliceVar(&cats, "category", nil, "category id (repeatable)")
	return cmd
}

// NewShowCommand prints one recipe.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			r, found, err := app.Repo.RecipeByID(ctx, id)
			if err != nil {
				return WrapExitError(ExitCommandError, "read recipe", err)
			}
			if !found {
				return notFound(id)
			}
			return opts.formatter(cmd).Success(recipeView(r), func(w io.Writer) {
				writeRecipe(w, r)
			})
		},
	}
}

// recipeFlags are the field flags shared by add and edit.
type recipeFlags struct {
	image       string
	name        string
	category    int64
	ingredients []string
	steps       []string
}

func (f *recipeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.image, "image", "", "image reference")
	cmd.Flags().StringVar(&f.name, "name", "", "recipe name")
	cmd.Flags().Int64Var(&f.category, "category", 0, "category id")
	cmd.Flags().StringArrayVar(&f.ingredients, "ingredient", nil, "ingredient (repeatable, in order)")
	cmd.Flags().StringArrayVar(&f.steps, "step", nil, "step (repeatable, in order)")
}

// apply copies the flags that were set on cmd into the session. Lists
// given on the command line replace the draft's lists.
func (f *recipeFlags) apply(cmd *cobra.Command, app *App, s *editor.Session) error {
	changed := cmd.Flags().Changed
	if changed("image") {
		if err := s.SetImage(f.image); err != nil {
			return err
		}
	}
	if changed("name") {
		if err := s.SetName(f.name); err != nil {
			return err
		}
	}
	if changed("category") {
		c, ok := model.FindCategory(app.Repo.CachedCategories(), model.CategoryID(f.category))
		if !ok {
			c = model.Category{ID: model.CategoryID(f.category)}
		}
		if err := s.SetCategory(c); err != nil {
			return err
		}
	}
	if changed("ingredient") {
		for range s.Snapshot().Draft.Ingredients {
			if err := s.RemoveIngredient(0); err != nil {
				return err
			}
		}
		for _, in := range f.ingredients {
			if err := s.AddIngredient(in); err != nil {
				return err
			}
		}
	}
	if changed("step") {
		for range s.Snapshot().Draft.Steps {
			if err := s.RemoveStep(0); err != nil {
				return err
			}
		}
		for _, st := range f.steps {
			if err := s.AddStep(st); err != nil {
				return err
			}
		}
	}
	return nil
}

// save runs Save and reports the result. Validation failures print one
// localized message per field and exit 1.
func save(cmd *cobra.Command, opts *RootOptions, app *App, s *editor.Session) error {
	ctx := cmd.Context()
	res, err := s.Save(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "save recipe", err)
	}
	out := opts.formatter(cmd)
	if !res.Saved() {
		var lines []string
		for _, e := range res.Errors.Errors() {
			lines = append(lines, fmt.Sprintf("%s: %s", e.Field, app.Localizer.Message(e)))
		}
		if err := out.Error(CodeValidation, app.Localizer.Default(), lines); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "recipe is invalid: "+strings.Join(codeList(res.Errors), ", "))
	}
	app.DrainNavigation()

	r, _, err := app.Repo.RecipeByID(ctx, res.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "read recipe", err)
	}
	return out.Success(recipeView(r), func(w io.Writer) {
		fmt.Fprintf(w, "Saved recipe %d (%s)\n", r.ID, r.Name)
	})
}

func codeList(r validate.Result) []string {
	var out []string
	for _, e := range r.Errors() {
		out = append(out, string(e.Code))
	}
	return out
}

// NewAddCommand creates a recipe.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	flags := &recipeFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe",
		Long: `Add a recipe. Every field is required:

  recipebox add --image file://soup.jpg --name Soup --category 3 \
    --ingredient water --ingredient salt --step boil`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			cmd.SetContext(ctx)

			if _, err := app.Repo.CategoryList(ctx); err != nil {
				return err
			}
			s := editor.NewAdd(app.Repo, app.Nav, editor.WithLogger(app.Log), editor.WithMetrics(app.Metrics))
			defer s.Close()

			if err := flags.apply(cmd, app, s); err != nil {
				return err
			}
			return save(cmd, opts, app, s)
		},
	}
	flags.register(cmd)
	return cmd
}

// NewEditCommand changes an existing recipe.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	flags := &recipeFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a recipe",
		Long: `Edit a recipe. Only the given fields change; --ingredient and --step
replace the whole list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			cmd.SetContext(ctx)

			if _, err := app.Repo.CategoryList(ctx); err != nil {
				return err
			}
			s := editor.NewEdit(ctx, app.Repo, app.Nav, id, editor.WithLogger(app.Log), editor.WithMetrics(app.Metrics))
			defer s.Close()
			if err := s.WaitReady(ctx); err != nil {
				return err
			}
			snap := s.Snapshot()
			if snap.LoadErr != nil {
				return WrapExitError(ExitCommandError, "read recipe", snap.LoadErr)
			}
			if snap.Saved == nil {
				return notFound(id)
			}

			if err := flags.apply(cmd, app, s); err != nil {
				return err
			}
			if !s.Dirty() {
				return opts.formatter(cmd).Success(recipeView(*snap.Saved), func(w io.Writer) {
					fmt.Fprintf(w, "Recipe %d unchanged\n", id)
				})
			}
			return save(cmd, opts, app, s)
		},
	}
	flags.register(cmd)
	return cmd
}

// NewDeleteCommand removes a recipe. A recipe that does not exist counts
// as deleted.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			v := detail.NewView(ctx, app.Repo, app.Nav, id)
			defer v.Close()
			if err := v.Delete(ctx); err != nil {
				var se *model.StorageError
				if errors.As(err, &se) {
					return WrapExitError(ExitCommandError, "delete recipe", err)
				}
				return err
			}
			app.DrainNavigation()

			return opts.formatter(cmd).Success(map[string]int64{"deleted": int64(id)}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted recipe %d\n", id)
			})
		},
	}
}

// NewExportCommand writes the whole collection as canonical JSON.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export categories and recipes as canonical JSON",
		Long: `Export categories and recipes as canonical JSON: keys sorted, no
insignificant whitespace, NFC-normalized strings. The output is identical
for identical collections, so exports can be diffed and hashed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			cats, err := app.Repo.CategoryList(ctx)
			if err != nil {
				return err
			}
			rs, err := app.Repo.Snapshot(ctx, nil)
			if err != nil {
				return WrapExitError(ExitCommandError, "list recipes", err)
			}
			data, err := model.MarshalCanonical(model.ExportDocument(cats, rs))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if _, err := w.Write(data); err != nil {
				return err
			}
			_, err = fmt.Fprintln(w)
			return err
		},
	}
}
