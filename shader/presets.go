package shader

import "sort"

// Default preset names.
const (
	DefaultNoise = "simplex"
	DefaultBlend = "normal"
)

// 3D simplex noise (Ashima Arts / Stefan Gustavson), output in [-1, 1].
const simplexNoise = `
vec3 mod289(vec3 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 mod289(vec4 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 permute(vec4 x) { return mod289(((x * 34.0) + 1.0) * x); }
vec4 taylorInvSqrt(vec4 r) { return 1.79284291400159 - 0.85373472095314 * r; }

float noise(vec3 v) {
    const vec2 C = vec2(1.0 / 6.0, 1.0 / 3.0);
    const vec4 D = vec4(0.0, 0.5, 1.0, 2.0);

    vec3 i = floor(v + dot(v, C.yyy));
    vec3 x0 = v - i + dot(i, C.xxx);

    vec3 g = step(x0.yzx, x0.xyz);
    vec3 l = 1.0 - g;
    vec3 i1 = min(g.xyz, l.zxy);
    vec3 i2 = max(g.xyz, l.zxy);

    vec3 x1 = x0 - i1 + C.xxx;
    vec3 x2 = x0 - i2 + C.yyy;
    vec3 x3 = x0 - D.yyy;

    i = mod289(i);
    vec4 p = permute(permute(permute(
                 i.z + vec4(0.0, i1.z, i2.z, 1.0))
               + i.y + vec4(0.0, i1.y, i2.y, 1.0))
               + i.x + vec4(0.0, i1.x, i2.x, 1.0));

    float n_ = 0.142857142857;
    vec3 ns = n_ * D.wyz - D.xzx;

    vec4 j = p - 49.0 * floor(p * ns.z * ns.z);

    vec4 x_ = floor(j * ns.z);
    vec4 y_ = floor(j - 7.0 * x_);

    vec4 x = x_ * ns.x + ns.yyyy;
    vec4 y = y_ * ns.x + ns.yyyy;
    vec4 h = 1.0 - abs(x) - abs(y);

    vec4 b0 = vec4(x.xy, y.xy);
    vec4 b1 = vec4(x.zw, y.zw);

    vec4 s0 = floor(b0) * 2.0 + 1.0;
    vec4 s1 = floor(b1) * 2.0 + 1.0;
    vec4 sh = -step(h, vec4(0.0));

    vec4 a0 = b0.xzyw + s0.xzyw * sh.xxyy;
    vec4 a1 = b1.xzyw + s1.xzyw * sh.zzww;

    vec3 p0 = vec3(a0.xy, h.x);
    vec3 p1 = vec3(a0.zw, h.y);
    vec3 p2 = vec3(a1.xy, h.z);
    vec3 p3 = vec3(a1.zw, h.w);

    vec4 norm = taylorInvSqrt(vec4(dot(p0, p0), dot(p1, p1), dot(p2, p2), dot(p3, p3)));
    p0 *= norm.x;
    p1 *= norm.y;
    p2 *= norm.z;
    p3 *= norm.w;

    vec4 m = max(0.6 - vec4(dot(x0, x0), dot(x1, x1), dot(x2, x2), dot(x3, x3)), 0.0);
    m = m * m;
    return 42.0 * dot(m * m, vec4(dot(p0, x0), dot(p1, x1), dot(p2, x2), dot(p3, x3)));
}
`

// Trilinear value noise over a hashed lattice, output in [-1, 1].
const valueNoise = `
float hash13(vec3 p) {
    p = fract(p * 0.1031);
    p += dot(p, p.zyx + 31.32);
    return fract((p.x + p.y) * p.z);
}

float noise(vec3 p) {
    vec3 i = floor(p);
    vec3 f = fract(p);
    vec3 u = f * f * (3.0 - 2.0 * f);

    float n000 = hash13(i);
    float n100 = hash13(i + vec3(1.0, 0.0, 0.0));
    float n010 = hash13(i + vec3(0.0, 1.0, 0.0));
    float n110 = hash13(i + vec3(1.0, 1.0, 0.0));
    float n001 = hash13(i + vec3(0.0, 0.0, 1.0));
    float n101 = hash13(i + vec3(1.0, 0.0, 1.0));
    float n011 = hash13(i + vec3(0.0, 1.0, 1.0));
    float n111 = hash13(i + vec3(1.0, 1.0, 1.0));

    float x00 = mix(n000, n100, u.x);
    float x10 = mix(n010, n110, u.x);
    float x01 = mix(n001, n101, u.x);
    float x11 = mix(n011, n111, u.x);

    float y0 = mix(x00, x10, u.y);
    float y1 = mix(x01, x11, u.y);

    return mix(y0, y1, u.z) * 2.0 - 1.0;
}
`

const normalBlend = `
vec3 blend(vec3 base, vec3 top, float opacity) {
    return mix(base, top, opacity);
}
`

const screenBlend = `
vec3 blend(vec3 base, vec3 top, float opacity) {
    return mix(base, 1.0 - (1.0 - base) * (1.0 - top), opacity);
}
`

const multiplyBlend = `
vec3 blend(vec3 base, vec3 top, float opacity) {
    return mix(base, base * top, opacity);
}
`

const overlayBlend = `
vec3 blend(vec3 base, vec3 top, float opacity) {
    vec3 low = 2.0 * base * top;
    vec3 high = 1.0 - 2.0 * (1.0 - base) * (1.0 - top);
    return mix(base, mix(low, high, step(0.5, base)), opacity);
}
`

const addBlend = `
vec3 blend(vec3 base, vec3 top, float opacity) {
    return mix(base, min(base + top, vec3(1.0)), opacity);
}
`

var noisePresets = map[string]string{
	"simplex": simplexNoise,
	"value":   valueNoise,
}

var blendPresets = map[string]string{
	"normal":   normalBlend,
	"screen":   screenBlend,
	"multiply": multiplyBlend,
	"overlay":  overlayBlend,
	"add":      addBlend,
}

// Noise returns the source of a named noise preset.
func Noise(name string) (string, bool) {
	src, ok := noisePresets[name]
	return src, ok
}

// Blend returns the source of a named blend preset.
func Blend(name string) (string, bool) {
	src, ok := blendPresets[name]
	return src, ok
}

// NoiseNames lists noise presets in sorted order.
func NoiseNames() []string { return sortedKeys(noisePresets) }

// BlendNames lists blend presets in sorted order.
func BlendNames() []string { return sortedKeys(blendPresets) }

// Resolve returns the preset source for name, or name itself when it is not a preset.
// Inline GLSL is passed through this way.
func Resolve(presets func(string) (string, bool), name string) string {
	if src, ok := presets(name); ok {
		return src
	}
	return name
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
