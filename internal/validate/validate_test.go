package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipebox/internal/model"
)

var testCategories = []model.Category{
	{ID: 1, Name: "Breakfast"},
	{ID: 2, Name: "Dinner"},
}

func validRecipe() model.Recipe {
	return model.Recipe{
		Image:        "file://img.png",
		Name:         "Omelette",
		CategoryID:   1,
		CategoryName: "Breakfast",
		Steps:        []string{"whisk", "cook"},
		Ingredients:  []string{"eggs"},
	}
}

func TestImage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		fails bool
	}{
		{"empty", "", true},
		{"spaces", "   ", true},
		{"tabs and newlines", "\t\n", true},
		{"uri", "content://media/1", false},
		{"padded", "  x  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Image(tt.input)
			if tt.fails {
				require.NotNil(t, err)
				assert.Equal(t, CodeEmptyImage, err.Code)
				assert.Equal(t, FieldImage, err.Field)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, CodeEmptyName, Name(" ").Code)
	assert.Nil(t, Name("Soup"))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name  string
		id    model.CategoryID
		cats  []model.Category
		fails bool
	}{
		{"unset", model.NoCategory, testCategories, true},
		{"known", 2, testCategories, false},
		{"stale id", 9, testCategories, true},
		{"no categories loaded", 1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Category(tt.id, tt.cats)
			if tt.fails {
				require.NotNil(t, err)
				assert.Equal(t, CodeEmptyCategory, err.Code)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestIngredientsAndSteps(t *testing.T) {
	assert.Equal(t, CodeEmptyIngredients, Ingredients(nil).Code)
	assert.Equal(t, CodeEmptyIngredients, Ingredients([]string{}).Code)
	assert.Nil(t, Ingredients([]string{""}), "blank entries are accepted")

	assert.Equal(t, CodeEmptySteps, Steps(nil).Code)
	assert.Nil(t, Steps([]string{" "}))
}

func TestRecipe_Valid(t *testing.T) {
	res := Recipe(validRecipe(), testCategories)
	assert.True(t, res.Valid())
	assert.Empty(t, res.Errors())
	assert.Empty(t, res.Codes())
}

func TestRecipe_AllFieldsInvalid(t *testing.T) {
	res := Recipe(model.Empty(), testCategories)
	assert.False(t, res.Valid())

	errs := res.Errors()
	require.Len(t, errs, 5)
	assert.Equal(t, []Field{FieldImage, FieldName, FieldCategory, FieldIngredients, FieldSteps},
		[]Field{errs[0].Field, errs[1].Field, errs[2].Field, errs[3].Field, errs[4].Field})
	assert.Equal(t, CodeEmptySteps, res.For(FieldSteps).Code)
	assert.Nil(t, res.For(Field("unknown")))
}

func TestRecipe_IndependentChecks(t *testing.T) {
	r := validRecipe()
	r.Name = ""
	r.Steps = nil

	res := Recipe(r, testCategories)
	assert.Equal(t, map[Field]Code{FieldName: CodeEmptyName, FieldSteps: CodeEmptySteps}, res.Codes())
}

func TestRecipe_Idempotent(t *testing.T) {
	r := validRecipe()
	r.Image = ""
	first := Recipe(r, testCategories)
	second := Recipe(r, testCategories)
	assert.Equal(t, first, second)
}

// Property: a draft passes iff image and name are non-blank, the category
// resolves, and both lists are non-empty.
func TestRecipe_ValidityProperty(t *testing.T) {
	images := []string{"", " ", "img"}
	names := []string{"", "name"}
	catIDs := []model.CategoryID{0, 1, 7}
	lists := [][]string{nil, {}, {""}, {"a", "b"}}

	for _, img := range images {
		for _, name := range names {
			for _, cat := range catIDs {
				for _, ing := range lists {
					for _, steps := range lists {
						r := model.Recipe{Image: img, Name: name, CategoryID: cat, Ingredients: ing, Steps: steps}
						want := img != "" && img != " " && name != "" && cat == 1 && len(ing) > 0 && len(steps) > 0
						assert.Equal(t, want, Recipe(r, testCategories).Valid(), "%+v", r)
					}
				}
			}
		}
	}
}
