package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const EnvFile string = "ENV_FILE"

func GenerateId() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// Envs collects the process environment; if ENV_FILE names one or more
// (comma separated) dotenv files, their values are read first and the
// process environment overlays them
func Envs(environ []string) (map[string]string, error) {
	envs := make(map[string]string)
	for _, env := range environ {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	envFile := envs[EnvFile]
	if envFile == "" {
		return envs, nil
	}
	var files []string
	for _, file := range strings.Split(envFile, ",") {
		if file = strings.TrimSpace(file); file == "" {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			return nil, errors.Wrapf(err, "env file %s", file)
		}
		files = append(files, file)
	}
	fileEnvs, err := godotenv.Read(files...)
	if err != nil {
		return nil, errors.Wrap(err, "error while reading env files")
	}
	for key, value := range fileEnvs {
		if _, ok := envs[key]; !ok {
			envs[key] = value
		}
	}
	return envs, nil
}

func DoRequest(ctx context.Context, client *http.Client, uri, method string, input interface{}, v ...interface{}) ([]byte, error) {
	var byts []byte
	var err error

	switch v := input.(type) {
	default:
		if byts, err = json.Marshal(input); err != nil {
			return nil, err
		}
	case nil:
	case url.Values:
		uri += "?" + v.Encode()
	}
	body := bytes.NewBuffer(byts)
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	if len(byts) > 0 {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	switch response.StatusCode {
	default:
		byts, _ = io.ReadAll(response.Body)
		if len(byts) > 0 {
			return nil, errors.Errorf("%s: %s", response.Status, string(byts))
		}
		return nil, errors.Errorf("%s", response.Status)
	case http.StatusNoContent:
		return []byte{}, nil
	case http.StatusOK, http.StatusCreated:
		bytes, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			return bytes, json.Unmarshal(bytes, v[0])
		}
		return bytes, nil
	}
}
