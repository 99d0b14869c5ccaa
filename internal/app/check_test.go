package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/appcompat/internal/compat"
	"github.com/blackwell-systems/appcompat/internal/scanner"
	"github.com/blackwell-systems/appcompat/internal/store"
)

const datasetJSON = `{
  "42": {"title": "Foo", "status": "2", "mtn_status": "works_fine", "url": "http://roaringapps.com/app/foo", "developer_name": "Foo Inc.", "icon": "foo.png"},
  "7":  {"title": "Bar", "status": "4", "mtn_status": "doesnt_work", "url": "http://roaringapps.com/app/bar", "developer_name": "Bar Ltd.", "icon": "bar.png"}
}`

// fakeSearcher serves canned application paths for the test app folder.
type fakeSearcher struct {
	root  string
	paths []string
	calls int
}

func (f *fakeSearcher) Search(root string) ([]string, error) {
	f.calls++
	if root != f.root {
		return nil, nil
	}
	return f.paths, nil
}

type testEnv struct {
	cacheFile string
	appDir    string
	searcher  *fakeSearcher
	requests  int
	server    *httptest.Server
}

// setupEnv isolates config and cache, installs apps into a fake Spotlight
// index and serves body as the compatibility dataset.
func setupEnv(t *testing.T, apps []string, body string) *testEnv {
	t.Helper()

	env := &testEnv{
		cacheFile: filepath.Join(t.TempDir(), "cache.db"),
		appDir:    t.TempDir(),
	}

	env.searcher = &fakeSearcher{root: env.appDir}
	for _, a := range apps {
		env.searcher.paths = append(env.searcher.paths, filepath.Join(env.appDir, a+".app"))
	}

	oldSearcher := newSearcher
	newSearcher = func() scanner.Searcher { return env.searcher }
	t.Cleanup(func() { newSearcher = oldSearcher })

	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.requests++
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(env.server.Close)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APPCOMPAT_DATA_URL", env.server.URL+"/all.json")
	t.Setenv("APPCOMPAT_CACHE_TTL", "1h")
	t.Setenv("NO_COLOR", "1")

	return env
}

// run executes the root command against env and returns stdout and stderr.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--cache-file", e.cacheFile, "-a", e.appDir}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestRun_WrapperMode(t *testing.T) {
	env := setupEnv(t, []string{"Foo", "Bar", "Baz"}, datasetJSON)

	out, _, err := env.run(t, "-w")
	require.NoError(t, err)

	assert.Equal(t, lines(
		"looking_for_installed_applications",
		"fetching_compatibility_data",
		"found_number_of_installed_application\t3",
		"compatibility_data_found\tBar\t4\tdoesnt_work\thttp://roaringapps.com/app/bar\tBar Ltd.\tbar.png",
		"compatibility_data_not_found\tBaz",
		"compatibility_data_found\tFoo\t2\tworks_fine\thttp://roaringapps.com/app/foo\tFoo Inc.\tfoo.png",
		"found_number_of_incompatible_applications\t1",
	), out)
	assert.Equal(t, 1, env.requests)
	assert.Equal(t, 1, env.searcher.calls)
}

func TestRun_HumanDefault(t *testing.T) {
	env := setupEnv(t, []string{"Foo", "Bar", "Baz"}, datasetJSON)

	out, _, err := env.run(t)
	require.NoError(t, err)

	assert.Equal(t, lines(
		"Looking for installed applications...",
		"Fetching compatibility data...",
		"Found 3 installed applications.",
		"Only displaying incompatible applications.",
		"",
		"Bar:",
		"Mac OS X 10.7 (Lion): Does not work",
		"Mac OS X 10.8 (Mountain Lion): Does not work",
		"",
		"Found 1 incompatible application.",
	), out)
}

func TestRun_CompatibleAppScenario(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)

	out, _, err := env.run(t)
	require.NoError(t, err)
	assert.NotContains(t, out, "Foo:")
	assert.Contains(t, out, "Found 0 incompatible applications.")

	out, _, err = env.run(t, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "\nFoo:\nMac OS X 10.7 (Lion): OK\nMac OS X 10.8 (Mountain Lion): OK\n")
	assert.Contains(t, out, "Found 0 incompatible applications.")
}

func TestRun_NotFoundScenario(t *testing.T) {
	env := setupEnv(t, []string{"Bar"}, `{"42": {"title": "Foo", "status": "2", "mtn_status": "works_fine", "url": "", "developer_name": "", "icon": ""}}`)

	out, _, err := env.run(t, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "\nFound no compatibility data for Bar\n")
	assert.Contains(t, out, "Found 0 incompatible applications.")

	out, _, err = env.run(t)
	require.NoError(t, err)
	assert.NotContains(t, out, "Found no compatibility data")
}

func TestRun_ConflictingFlags(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)

	out, _, err := env.run(t, "-l", "-m")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingFlags)
	assert.Contains(t, err.Error(), "mutually exclusive")

	assert.Empty(t, out)
	assert.Equal(t, 0, env.searcher.calls)
	assert.Equal(t, 0, env.requests)
	_, statErr := os.Stat(env.cacheFile)
	assert.True(t, os.IsNotExist(statErr), "cache must not be created")
}

func TestRun_ZeroApplications(t *testing.T) {
	env := setupEnv(t, nil, datasetJSON)

	out, _, err := env.run(t, "-w")
	require.NoError(t, err)
	assert.Equal(t, lines(
		"looking_for_installed_applications",
		"fetching_compatibility_data",
		"found_no_installed_applications",
	), out)

	out, _, err = env.run(t)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Found no installed applications, exiting.\n"), out)
	assert.NotContains(t, out, "incompatible")
}

func TestRun_UsesCache(t *testing.T) {
	env := setupEnv(t, []string{"Foo", "Bar"}, datasetJSON)

	_, _, err := env.run(t, "-w")
	require.NoError(t, err)

	out, _, err := env.run(t, "-w")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, lines(
		"using_cached_installed_applications",
		"using_cached_compatibility_data",
		"found_number_of_installed_application\t2",
	)), out)

	assert.Equal(t, 1, env.requests)
	assert.Equal(t, 1, env.searcher.calls)
}

func TestRun_CachedAppsIgnoreNewFolders(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)

	_, _, err := env.run(t, "-w")
	require.NoError(t, err)

	env.searcher.paths = append(env.searcher.paths, filepath.Join(env.appDir, "Bar.app"))
	out, _, err := env.run(t, "-w")
	require.NoError(t, err)
	assert.Contains(t, out, "found_number_of_installed_application\t1\n")

	out, _, err = env.run(t, "-w", "-r")
	require.NoError(t, err)
	assert.Contains(t, out, "found_number_of_installed_application\t2\n")
}

func TestRun_RefreshCache(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)

	_, _, err := env.run(t, "-w")
	require.NoError(t, err)

	out, _, err := env.run(t, "-w", "--refresh-cache")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, lines(
		"looking_for_installed_applications",
		"fetching_compatibility_data",
	)), out)
	assert.Equal(t, 2, env.requests)
	assert.Equal(t, 2, env.searcher.calls)
}

func TestRun_ExpiredCache(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)
	t.Setenv("APPCOMPAT_CACHE_TTL", "0s")

	_, _, err := env.run(t, "-w")
	require.NoError(t, err)
	_, _, err = env.run(t, "-w")
	require.NoError(t, err)

	assert.Equal(t, 2, env.requests)
}

func TestRun_IncompleteCacheIsRefreshed(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)

	// A fresh cache holding only the application list.
	st, err := store.New(env.cacheFile)
	require.NoError(t, err)
	require.NoError(t, st.CreateSchema())
	require.NoError(t, st.Put(store.InstalledApplicationsKey, []string{"Foo"}))
	require.NoError(t, st.Close())

	out, _, err := env.run(t, "-w")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "looking_for_installed_applications\n"), out)
	assert.Equal(t, 1, env.requests)
	assert.Equal(t, 1, env.searcher.calls)
}

func TestRun_NetworkFailure(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)
	env.server.Close()

	out, _, err := env.run(t, "-w")
	require.Error(t, err)
	assert.ErrorIs(t, err, compat.ErrUnreachable)
	assert.Contains(t, err.Error(), "are you connected to the Internet?")
	assert.NotContains(t, out, "found_number_of_installed_application")
}

func TestRun_MalformedData(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, "<html>Service Unavailable</html>")

	_, _, err := env.run(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, compat.ErrMalformed)
}

func TestRun_UnknownStatusCode(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, `{"1": {"title": "Foo", "status": "7", "mtn_status": "works_fine"}}`)

	_, _, err := env.run(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, compat.ErrUnknownStatus)
}

func TestRun_MissingFolderWarns(t *testing.T) {
	env := setupEnv(t, []string{"Foo"}, datasetJSON)
	missing := filepath.Join(t.TempDir(), "gone")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--cache-file", env.cacheFile, "-a", missing, "-a", env.appDir, "-w"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "Couldn't find "+missing+", skipping it.")
	assert.Contains(t, stdout.String(), "found_number_of_installed_application\t1\n")
	assert.NotContains(t, stdout.String(), "Couldn't find")
}

func TestRun_RejectsArguments(t *testing.T) {
	env := setupEnv(t, nil, datasetJSON)

	_, _, err := env.run(t, "unexpected")
	assert.Error(t, err)
	assert.Equal(t, 0, env.searcher.calls)
}
