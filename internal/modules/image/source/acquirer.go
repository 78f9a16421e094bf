package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"imager/internal/consts"
	"imager/internal/utils"

	"github.com/segmentio/ksuid"
)

// ObjectFetcher 读取对象存储中的源图，由 storage.ObjectStore 实现
type ObjectFetcher interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)
}

type Options struct {
	PublicRoot    string
	MaxBytes      int64
	AllowRemote   bool
	RemoteTimeout time.Duration
	HTTPClient    *http.Client
	Objects       ObjectFetcher
}

// Acquirer 为每次请求创建独立工作目录，并把上传文件或引用的源图写入其中
type Acquirer struct {
	opts   Options
	client *http.Client
}

func NewAcquirer(opts Options) *Acquirer {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.RemoteTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = newRemoteClient(timeout)
	}
	return &Acquirer{opts: opts, client: client}
}

type refKind int

const (
	refLocal refKind = iota
	refRemote
	refObject
)

type reference struct {
	kind   refKind
	name   string
	local  string
	url    *url.URL
	bucket string
	key    string
}

// UploadName 清洗上传文件名，不产生任何副作用
func UploadName(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrInvalidName
	}
	name, err := utils.SanitizeFilename(fh.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return name, nil
}

// ReferenceName 解析引用并返回源图文件名，不产生任何副作用
func (a *Acquirer) ReferenceName(ref string) (string, error) {
	r, err := a.parseReference(ref)
	if err != nil {
		return "", err
	}
	return r.name, nil
}

func (a *Acquirer) parseReference(ref string) (*reference, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrSourceNotFound)
	}
	lower := strings.ToLower(ref)

	switch {
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		if !a.opts.AllowRemote {
			return nil, fmt.Errorf("%w: remote references are disabled", ErrSourceNotFound)
		}
		u, err := url.Parse(ref)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("%w: malformed url", ErrSourceNotFound)
		}
		name, err := utils.SanitizeFilename(path.Base(u.Path))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
		}
		return &reference{kind: refRemote, name: name, url: u}, nil

	case strings.HasPrefix(lower, "s3://"):
		if a.opts.Objects == nil {
			return nil, fmt.Errorf("%w: object store is disabled", ErrSourceNotFound)
		}
		u, err := url.Parse(ref)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("%w: malformed object reference", ErrSourceNotFound)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if key == "" {
			return nil, fmt.Errorf("%w: missing object key", ErrSourceNotFound)
		}
		name, err := utils.SanitizeFilename(path.Base(key))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
		}
		return &reference{kind: refObject, name: name, bucket: u.Host, key: key}, nil
	}

	rel := ref
	if filepath.IsAbs(ref) {
		rootAbs, err := filepath.Abs(a.opts.PublicRoot)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
		}
		if rel, err = utils.RelativeWithin(rootAbs, filepath.Clean(ref)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
		}
	}
	local, err := utils.SecureJoin(a.opts.PublicRoot, rel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	name, err := utils.SanitizeFilename(filepath.Base(local))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return &reference{kind: refLocal, name: name, local: local}, nil
}

// FromUpload 将上传文件原样写入新的工作目录
func (a *Acquirer) FromUpload(ctx context.Context, fh *multipart.FileHeader) (*Source, error) {
	name, err := UploadName(fh)
	if err != nil {
		return nil, err
	}
	if a.opts.MaxBytes > 0 && fh.Size > a.opts.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrSourceTooLarge, fh.Size)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	defer func() { _ = file.Close() }()

	if ok, msg := utils.ValidateImageContent(file, path.Ext(name)); !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentMismatch, msg)
	}
	return a.store(ctx, name, file)
}

// FromReference 读取引用的源图（公共目录内路径、http(s) 地址或 s3://bucket/key）并复制到新的工作目录
func (a *Acquirer) FromReference(ctx context.Context, ref string) (*Source, error) {
	r, err := a.parseReference(ref)
	if err != nil {
		return nil, err
	}

	var body io.ReadCloser
	switch r.kind {
	case refRemote:
		body, err = a.openRemote(ctx, r.url)
	case refObject:
		body, err = a.openObject(ctx, r.bucket, r.key)
	default:
		body, err = a.openLocal(r.local)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	return a.store(ctx, r.name, body)
}

func (a *Acquirer) openLocal(abs string) (io.ReadCloser, error) {
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, filepath.Base(abs))
	}
	if a.opts.MaxBytes > 0 && info.Size() > a.opts.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrSourceTooLarge, info.Size())
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	return f, nil
}

func (a *Acquirer) openRemote(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: remote status %d", ErrSourceNotFound, resp.StatusCode)
	}
	if a.opts.MaxBytes > 0 && resp.ContentLength > a.opts.MaxBytes {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d bytes", ErrSourceTooLarge, resp.ContentLength)
	}
	return resp.Body, nil
}

func (a *Acquirer) openObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	body, size, err := a.opts.Objects.Open(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	if a.opts.MaxBytes > 0 && size > a.opts.MaxBytes {
		_ = body.Close()
		return nil, fmt.Errorf("%w: %d bytes", ErrSourceTooLarge, size)
	}
	return body, nil
}

// store 创建工作目录并写入 r 的全部字节，任何失败都会删除刚创建的目录
func (a *Acquirer) store(ctx context.Context, name string, r io.Reader) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	token, dir, err := a.makeWorkDir()
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(dir, name)
	n, err := a.writeFile(dst, r)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	stem, ext := splitName(name)
	relDir := path.Join(consts.ImagesDirName, token)
	return &Source{
		Token:   token,
		Name:    name,
		Stem:    stem,
		Ext:     ext,
		Dir:     dir,
		RelDir:  relDir,
		AbsPath: dst,
		RelPath: path.Join(relDir, name),
		Size:    n,
	}, nil
}

func (a *Acquirer) writeFile(dst string, r io.Reader) (int64, error) {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("create source file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if a.opts.MaxBytes > 0 {
		r = io.LimitReader(r, a.opts.MaxBytes+1)
	}
	n, err := io.Copy(out, r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	if a.opts.MaxBytes > 0 && n > a.opts.MaxBytes {
		return 0, fmt.Errorf("%w: more than %d bytes", ErrSourceTooLarge, a.opts.MaxBytes)
	}
	return n, nil
}

// makeWorkDir 在 images 根目录下创建 ksuid 命名的新目录，已存在的目录不会被复用
func (a *Acquirer) makeWorkDir() (string, string, error) {
	root, err := utils.SecureJoin(a.opts.PublicRoot, consts.ImagesDirName)
	if err != nil {
		return "", "", fmt.Errorf("resolve images root: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", "", fmt.Errorf("create images root: %w", err)
	}

	for attempt := 0; attempt < 3; attempt++ {
		token := ksuid.New().String()
		dir := filepath.Join(root, token)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return token, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", fmt.Errorf("create work dir: %w", err)
		}
	}
	return "", "", errors.New("create work dir: token collision")
}

// Discard 删除来源所在的整个工作目录
func (a *Acquirer) Discard(src *Source) error {
	if src == nil {
		return nil
	}
	return a.RemoveDir(src.RelDir)
}

// RemoveDir 删除 images/<token> 形式的工作目录，其它形式的路径会被拒绝
func (a *Acquirer) RemoveDir(relDir string) error {
	clean := path.Clean(strings.ReplaceAll(relDir, `\`, "/"))
	parent, token := path.Split(clean)
	if strings.TrimSuffix(parent, "/") != consts.ImagesDirName || token == "" || token == "." || token == ".." {
		return fmt.Errorf("refusing to remove %q", relDir)
	}
	abs, err := utils.SecureJoin(a.opts.PublicRoot, clean)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ImagesRoot 返回工作目录所在根目录的绝对路径
func (a *Acquirer) ImagesRoot() (string, error) {
	return utils.SecureJoin(a.opts.PublicRoot, consts.ImagesDirName)
}
