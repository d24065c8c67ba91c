package definition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/diconfig/internal/node"
)

func apply(t *testing.T, def *Definition, entries ...node.Entry) {
	t.Helper()
	err := Update(context.Background(), def, node.NewMapping(entries...), def.Name)
	require.NoError(t, err)
}

func TestUpdateUnknownKeySuggestion(t *testing.T) {
	def := &Definition{Name: "mailer"}
	config := node.NewMapping(node.Entry{Key: "facotry", Value: node.String("App\\Mailer")})

	err := Update(context.Background(), def, config, "mailer")
	require.Error(t, err)

	var shapeErr *node.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "facotry", shapeErr.Key)
	assert.Contains(t, err.Error(), "did you mean 'factory'?")
}

func TestUpdateFactorySetsType(t *testing.T) {
	def := &Definition{Name: "mailer"}
	apply(t, def, node.Entry{Key: "factory", Value: &node.Statement{
		Entity:    node.String("App\\Mailer"),
		Arguments: &node.Mapping{},
	}})

	assert.Equal(t, "App\\Mailer", def.Type)
	require.NotNil(t, def.Factory)
}

func TestUpdateFactoryMethodCallLeavesTypeEmpty(t *testing.T) {
	def := &Definition{Name: "db"}
	apply(t, def, node.Entry{Key: "factory", Value: node.String("@factory::create")})

	assert.Empty(t, def.Type)
	require.NotNil(t, def.Factory)
}

func TestUpdateFactoryResetsPriorRecipe(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "type", Value: node.String("Old\\Type")})
	require.Equal(t, "Old\\Type", def.Type)

	apply(t, def, node.Entry{Key: "factory", Value: node.String("New\\Factory")})

	assert.Equal(t, "New\\Factory", def.Type, "the old type must not survive a new factory")
	entity, _ := node.StringValue(def.Factory.Entity)
	assert.Equal(t, "New\\Factory", entity)
}

func TestUpdateArgumentsUnionIntoFactory(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "factory", Value: &node.Statement{
		Entity: node.String("App\\Db"),
		Arguments: node.NewMapping(
			node.Entry{Key: "dsn", Value: node.String("old")},
			node.Entry{Key: "timeout", Value: node.Int(5)},
		),
	}})

	apply(t, def, node.Entry{Key: "arguments", Value: node.NewMapping(
		node.Entry{Key: "dsn", Value: node.String("new")},
	)})

	// Override wins, untouched prior keys fill in after.
	assert.Equal(t, []string{"dsn", "timeout"}, def.Arguments.Keys())
	v, _ := def.Arguments.Get("dsn")
	s, _ := node.StringValue(v)
	assert.Equal(t, "new", s)
	assert.Same(t, def.Arguments, def.Factory.Arguments)
}

func TestUpdateArgumentsOverwriteSkipsUnion(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "factory", Value: &node.Statement{
		Entity:    node.String("App\\Db"),
		Arguments: node.NewMapping(node.Entry{Key: "old", Value: node.Int(1)}),
	}})

	apply(t, def, node.Entry{Key: "arguments", Value: &node.Mapping{
		Entries:   []node.Entry{{Key: "new", Value: node.Int(2)}},
		Overwrite: true,
	}})

	assert.Equal(t, []string{"new"}, def.Arguments.Keys())
	assert.False(t, def.Arguments.Overwrite)
}

func TestUpdateSetupForms(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "setup", Value: &node.Sequence{Items: []node.Node{
		node.String("warmup"),
		node.NewMapping(node.Entry{Key: "setHost", Value: node.String("localhost")}),
		&node.Statement{Entity: node.String("init"), Arguments: &node.Mapping{}},
	}}})

	require.Len(t, def.Setup, 3)

	first, _ := node.StringValue(def.Setup[0].Entity)
	assert.Equal(t, "warmup", first)
	assert.Zero(t, def.Setup[0].Arguments.Len())

	second, _ := node.StringValue(def.Setup[1].Entity)
	assert.Equal(t, "setHost", second)
	arg, _ := def.Setup[1].Arguments.Get("0")
	s, _ := node.StringValue(arg)
	assert.Equal(t, "localhost", s)
}

func TestUpdateSetupAppendsUnlessOverwrite(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "setup", Value: &node.Sequence{Items: []node.Node{node.String("a")}}})
	apply(t, def, node.Entry{Key: "setup", Value: &node.Sequence{Items: []node.Node{node.String("b")}}})
	require.Len(t, def.Setup, 2)

	apply(t, def, node.Entry{Key: "setup", Value: &node.Sequence{
		Items:     []node.Node{node.String("c")},
		Overwrite: true,
	}})
	require.Len(t, def.Setup, 1)
	only, _ := node.StringValue(def.Setup[0].Entity)
	assert.Equal(t, "c", only)
}

func TestUpdateImplementEnablesAutowiring(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "implement", Value: node.String("App\\MailerInterface")})

	assert.Equal(t, "App\\MailerInterface", def.Implement)
	b, ok := node.BoolValue(def.Autowired)
	require.True(t, ok)
	assert.True(t, b)
}

func TestUpdateInjectAddsTag(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "inject", Value: node.Bool(true)})

	assert.True(t, def.Inject)
	require.NotNil(t, def.Tags)
	v, ok := def.Tags.Get(InjectTag)
	require.True(t, ok)
	b, _ := node.BoolValue(v)
	assert.True(t, b)
}

func TestUpdateExternal(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "external", Value: node.Bool(true)})
	assert.True(t, def.External)

	err := Update(context.Background(), def,
		node.NewMapping(node.Entry{Key: "external", Value: node.String("yes")}), "svc")
	require.Error(t, err)
}

func TestUpdateTagsShorthand(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "tags", Value: &node.Sequence{Items: []node.Node{
		node.String("console.command"),
	}}})
	apply(t, def, node.Entry{Key: "tags", Value: node.NewMapping(
		node.Entry{Key: "listener", Value: node.NewMapping(
			node.Entry{Key: "event", Value: node.String("startup")},
		)},
	)})

	assert.Equal(t, []string{"console.command", "listener"}, def.Tags.Keys())
	flag, _ := def.Tags.Get("console.command")
	b, _ := node.BoolValue(flag)
	assert.True(t, b)
}

func TestUpdateUntouchedFieldsKeepState(t *testing.T) {
	def := &Definition{Name: "svc"}
	apply(t, def, node.Entry{Key: "factory", Value: node.String("App\\Mailer")})
	apply(t, def, node.Entry{Key: "inject", Value: node.Bool(true)})

	// The second fragment never mentioned the factory.
	require.NotNil(t, def.Factory)
	entity, _ := node.StringValue(def.Factory.Entity)
	assert.Equal(t, "App\\Mailer", entity)
}
